package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"college-erp/internal/model"
	"college-erp/internal/repository"
	pkgerrors "college-erp/pkg/errors"
	"college-erp/pkg/mailer"
)

var mockSeq int

func nextID(prefix string) string {
	mockSeq++
	return fmt.Sprintf("%s-%d", prefix, mockSeq)
}

// ── Mock CollegeRepository ──

type mockCollegeRepo struct {
	colleges map[string]*model.College
	users    map[string]int64
}

func newMockCollegeRepo() *mockCollegeRepo {
	return &mockCollegeRepo{colleges: make(map[string]*model.College), users: make(map[string]int64)}
}

func (m *mockCollegeRepo) Create(_ context.Context, c *model.College) error {
	if c.ID == "" {
		c.ID = nextID("college")
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.colleges[c.ID] = c
	return nil
}

func (m *mockCollegeRepo) GetByID(_ context.Context, id string) (*model.College, error) {
	if c, ok := m.colleges[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) GetByName(_ context.Context, name string) (*model.College, error) {
	for _, c := range m.colleges {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) GetByDomain(_ context.Context, domain string) (*model.College, error) {
	for _, c := range m.colleges {
		if c.Domain == domain {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) List(_ context.Context) ([]model.College, error) {
	var list []model.College
	for _, c := range m.colleges {
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *mockCollegeRepo) Update(_ context.Context, c *model.College) error {
	cp := *c
	m.colleges[c.ID] = &cp
	return nil
}

func (m *mockCollegeRepo) Delete(_ context.Context, id string) error {
	delete(m.colleges, id)
	return nil
}

func (m *mockCollegeRepo) CountUsers(_ context.Context, id string) (int64, error) {
	return m.users[id], nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users    map[string]*model.User
	colleges *mockCollegeRepo
}

func newMockUserRepo(colleges *mockCollegeRepo) *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), colleges: colleges}
}

func (m *mockUserRepo) withCollege(u *model.User) *model.User {
	cp := *u
	if cp.CollegeID != nil && m.colleges != nil {
		if c, ok := m.colleges.colleges[*cp.CollegeID]; ok {
			college := *c
			cp.College = &college
		}
	}
	return &cp
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	for _, other := range m.users {
		if other.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == "" {
		u.ID = nextID("user")
	}
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	if u.CollegeID != nil && m.colleges != nil {
		m.colleges.users[*u.CollegeID]++
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return m.withCollege(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return m.withCollege(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, u *model.User) error {
	cp := *u
	cp.College = nil
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "verified":
			u.Verified = v.(bool)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "name":
			u.Name = v.(string)
		case "contact":
			u.Contact = v.(string)
		case model.DocPhoto:
			u.Photo = v.(string)
		case model.DocSignature:
			u.Signature = v.(string)
		case model.DocIDCard:
			u.IDCard = v.(string)
		case model.DocCertificate:
			u.Certificate = v.(string)
		case model.DocTranscript:
			u.Transcript = v.(string)
		default:
			return fmt.Errorf("mock: unsupported field %q", k)
		}
	}
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) matches(u *model.User, collegeID string, f repository.StudentFilter) bool {
	if u.Role != model.RoleStudent || u.CollegeIDValue() != collegeID {
		return false
	}
	if f.Program != "" && u.Program != f.Program {
		return false
	}
	if f.Branch != "" && u.Branch != f.Branch {
		return false
	}
	if f.Year != "" && u.Year != f.Year {
		return false
	}
	if f.Section != "" && u.Section != f.Section {
		return false
	}
	if f.Keyword != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(f.Keyword)) {
		return false
	}
	return true
}

func (m *mockUserRepo) ListAllStudents(_ context.Context, collegeID string, f repository.StudentFilter) ([]model.User, error) {
	var list []model.User
	for _, u := range m.users {
		if m.matches(u, collegeID, f) {
			list = append(list, *u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *mockUserRepo) ListStudents(ctx context.Context, collegeID string, f repository.StudentFilter, offset, limit int) ([]model.User, int64, error) {
	all, _ := m.ListAllStudents(ctx, collegeID, f)
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListByClass(_ context.Context, collegeID, branch, year string) ([]model.User, error) {
	var list []model.User
	for _, u := range m.users {
		if u.Role == model.RoleStudent && u.CollegeIDValue() == collegeID && u.Branch == branch && u.Year == year {
			list = append(list, *u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].RollNoValue() < list[j].RollNoValue() })
	return list, nil
}

func (m *mockUserRepo) DistinctStudentValues(_ context.Context, collegeID, column string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, u := range m.users {
		if u.Role != model.RoleStudent || u.CollegeIDValue() != collegeID {
			continue
		}
		var v string
		switch column {
		case model.FieldProgram:
			v = u.Program
		case model.FieldBranch:
			v = u.Branch
		case model.FieldYear:
			v = u.Year
		case model.FieldSection:
			v = u.Section
		case model.FieldSemester:
			v = u.Semester
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, c *model.Course) error {
	if c.ID == "" {
		c.ID = nextID("course")
	}
	cp := *c
	m.courses[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, collegeID, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok && c.CollegeID == collegeID {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) FindByNameOrCode(_ context.Context, collegeID, name, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.CollegeID == collegeID && (c.CourseName == name || c.CourseCode == code) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, collegeID string) ([]model.Course, error) {
	var list []model.Course
	for _, c := range m.courses {
		if c.CollegeID == collegeID {
			list = append(list, *c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CourseName < list[j].CourseName })
	return list, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	rows    []model.StudentCourse
	courses *mockCourseRepo
	users   *mockUserRepo
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.StudentCourse) error {
	if e.ID == "" {
		e.ID = nextID("enroll")
	}
	m.rows = append(m.rows, *e)
	return nil
}

func (m *mockEnrollmentRepo) Exists(_ context.Context, studentID, courseID string) (bool, error) {
	for _, r := range m.rows {
		if r.StudentID == studentID && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentCourse, error) {
	var list []model.StudentCourse
	for _, r := range m.rows {
		if r.StudentID == studentID {
			if c, ok := m.courses.courses[r.CourseID]; ok {
				cp := *c
				r.Course = &cp
			}
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockEnrollmentRepo) ListStudents(_ context.Context, courseID string) ([]model.User, error) {
	var list []model.User
	for _, r := range m.rows {
		if r.CourseID == courseID {
			if u, ok := m.users.users[r.StudentID]; ok {
				list = append(list, *u)
			}
		}
	}
	return list, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	rows []model.FacultyCourse
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.FacultyCourse) error {
	if a.ID == "" {
		a.ID = nextID("assign")
	}
	m.rows = append(m.rows, *a)
	return nil
}

func (m *mockAssignmentRepo) Exists(_ context.Context, facultyID, courseID, program, branch, year string) (bool, error) {
	for _, r := range m.rows {
		if r.FacultyID == facultyID && r.CourseID == courseID && r.Program == program && r.Branch == branch && r.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) IsAssigned(_ context.Context, facultyID, courseID string) (bool, error) {
	for _, r := range m.rows {
		if r.FacultyID == facultyID && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) ListByFaculty(_ context.Context, facultyID string) ([]model.FacultyCourse, error) {
	var list []model.FacultyCourse
	for _, r := range m.rows {
		if r.FacultyID == facultyID {
			list = append(list, r)
		}
	}
	return list, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	rows []model.Attendance
}

func sameCourse(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameDay(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (m *mockAttendanceRepo) ListForDay(_ context.Context, studentIDs []string, date time.Time, courseID *string) ([]model.Attendance, error) {
	var list []model.Attendance
	for _, r := range m.rows {
		if contains(studentIDs, r.StudentID) && sameDay(r.Date, date) && sameCourse(r.CourseID, courseID) {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockAttendanceRepo) Replace(_ context.Context, studentIDs []string, date time.Time, courseID *string, rows []model.Attendance) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if contains(studentIDs, r.StudentID) && sameDay(r.Date, date) && sameCourse(r.CourseID, courseID) {
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	for _, r := range rows {
		r.ID = nextID("att")
		m.rows = append(m.rows, r)
	}
	return nil
}

func inQuery(r model.Attendance, q repository.AttendanceQuery) bool {
	if q.CourseID != nil && !sameCourse(r.CourseID, q.CourseID) {
		return false
	}
	if q.From != nil && r.Date.Before(*q.From) {
		return false
	}
	if q.To != nil && r.Date.After(*q.To) {
		return false
	}
	return true
}

func (m *mockAttendanceRepo) ListByStudent(_ context.Context, studentID string, q repository.AttendanceQuery) ([]model.Attendance, error) {
	var list []model.Attendance
	for _, r := range m.rows {
		if r.StudentID == studentID && inQuery(r, q) {
			list = append(list, r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (m *mockAttendanceRepo) ListByCourse(_ context.Context, courseID string, q repository.AttendanceQuery) ([]model.Attendance, error) {
	q.CourseID = &courseID
	var list []model.Attendance
	for _, r := range m.rows {
		if inQuery(r, q) {
			list = append(list, r)
		}
	}
	return list, nil
}

// ── Mock FeeConfigRepository ──

type mockFeeConfigRepo struct {
	rows []model.FeeConfig
}

func (m *mockFeeConfigRepo) Create(_ context.Context, c *model.FeeConfig) error {
	if c.ID == "" {
		c.ID = nextID("feecfg")
	}
	c.UpdatedAt = time.Now().Add(time.Duration(len(m.rows)) * time.Millisecond)
	m.rows = append(m.rows, *c)
	return nil
}

func (m *mockFeeConfigRepo) ListByCollege(_ context.Context, collegeID string) ([]model.FeeConfig, error) {
	var list []model.FeeConfig
	for _, c := range m.rows {
		if c.CollegeID == collegeID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockFeeConfigRepo) Latest(_ context.Context, collegeID, program, branch, year string) (*model.FeeConfig, error) {
	var best *model.FeeConfig
	for i := range m.rows {
		c := &m.rows[i]
		if c.CollegeID == collegeID && c.Program == program && c.Branch == branch && c.Year == year {
			if best == nil || c.UpdatedAt.After(best.UpdatedAt) {
				best = c
			}
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *best
	return &cp, nil
}

// ── Mock FeePaymentRepository ──

type mockFeePaymentRepo struct {
	payments   map[string]*model.FeePayment
	users      *mockUserRepo
	confirmErr error
}

func (m *mockFeePaymentRepo) Create(_ context.Context, p *model.FeePayment) error {
	if p.ID == "" {
		p.ID = nextID("pay")
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	cp.Student = nil
	m.payments[p.ID] = &cp
	return nil
}

func (m *mockFeePaymentRepo) GetByID(_ context.Context, id string) (*model.FeePayment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	if u, ok := m.users.users[p.StudentID]; ok {
		st := *u
		cp.Student = &st
	}
	return &cp, nil
}

func (m *mockFeePaymentRepo) ListByStudent(_ context.Context, studentID string) ([]model.FeePayment, error) {
	var list []model.FeePayment
	for _, p := range m.payments {
		if p.StudentID == studentID {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *mockFeePaymentRepo) ListByCollege(_ context.Context, collegeID string) ([]model.FeePayment, error) {
	var list []model.FeePayment
	for _, p := range m.payments {
		if p.CollegeID == collegeID {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (m *mockFeePaymentRepo) SumPaid(_ context.Context, studentID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.payments {
		if p.StudentID == studentID && p.Status == model.PaymentPaid {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (m *mockFeePaymentRepo) SumPaidByStudents(ctx context.Context, studentIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, id := range studentIDs {
		total, _ := m.SumPaid(ctx, id)
		if total.IsPositive() {
			out[id] = total
		}
	}
	return out, nil
}

func (m *mockFeePaymentRepo) UpdateStatus(_ context.Context, id, status string) error {
	p, ok := m.payments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	return nil
}

func (m *mockFeePaymentRepo) ConfirmPaid(ctx context.Context, id string, feeAmount decimal.Decimal, reference string) (*model.FeePayment, error) {
	if m.confirmErr != nil {
		return nil, m.confirmErr
	}
	p, ok := m.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if p.Status == model.PaymentPaid {
		cp := *p
		return &cp, nil
	}
	paid, _ := m.SumPaid(ctx, p.StudentID)
	if paid.Add(p.Amount).GreaterThan(feeAmount) {
		return nil, pkgerrors.ErrDuesExceeded
	}
	p.Status = model.PaymentPaid
	if reference != "" {
		p.PaymentReference = reference
	}
	cp := *p
	return &cp, nil
}

// ── Mock ResultRepository ──

type mockResultRepo struct {
	results map[string]*model.Result
	users   *mockUserRepo
	// afterGet runs once GetByKey has copied the row, to interleave writers.
	afterGet func()
}

func (m *mockResultRepo) GetByKey(_ context.Context, studentID, courseID, semester string) (*model.Result, error) {
	for _, r := range m.results {
		if r.StudentID == studentID && r.CourseID == courseID && r.Semester == semester {
			cp := *r
			if m.afterGet != nil {
				m.afterGet()
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResultRepo) Create(_ context.Context, r *model.Result) error {
	if r.ID == "" {
		r.ID = nextID("result")
	}
	cp := *r
	m.results[r.ID] = &cp
	return nil
}

func (m *mockResultRepo) UpdatePendingMarks(_ context.Context, id string, marks int, grade string) (bool, error) {
	r, ok := m.results[id]
	if !ok || r.ApprovedByAdmin {
		return false, nil
	}
	r.Marks, r.Grade = marks, grade
	return true, nil
}

func (m *mockResultRepo) collegeOf(r *model.Result) string {
	if u, ok := m.users.users[r.StudentID]; ok {
		return u.CollegeIDValue()
	}
	return ""
}

func (m *mockResultRepo) ListPending(_ context.Context, collegeID string) ([]model.Result, error) {
	var list []model.Result
	for _, r := range m.results {
		if !r.ApprovedByAdmin && m.collegeOf(r) == collegeID {
			list = append(list, *r)
		}
	}
	return list, nil
}

func (m *mockResultRepo) Approve(_ context.Context, collegeID string, ids []string) ([]model.Result, error) {
	var approved []model.Result
	for _, id := range ids {
		r, ok := m.results[id]
		if !ok || r.ApprovedByAdmin || m.collegeOf(r) != collegeID {
			continue
		}
		r.ApprovedByAdmin = true
		approved = append(approved, *r)
	}
	return approved, nil
}

func (m *mockResultRepo) ListApproved(_ context.Context, studentID, semester string) ([]model.Result, error) {
	var list []model.Result
	for _, r := range m.results {
		if r.StudentID == studentID && r.ApprovedByAdmin && (semester == "" || r.Semester == semester) {
			list = append(list, *r)
		}
	}
	return list, nil
}

func (m *mockResultRepo) ApprovedSemesters(_ context.Context, studentID string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, r := range m.results {
		if r.StudentID == studentID && r.ApprovedByAdmin && !seen[r.Semester] {
			seen[r.Semester] = true
			out = append(out, r.Semester)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// ── Mock DropdownRepository ──

type mockDropdownRepo struct {
	rows []model.DropdownValue
}

func (m *mockDropdownRepo) Create(_ context.Context, v *model.DropdownValue) error {
	if v.ID == "" {
		v.ID = nextID("dd")
	}
	m.rows = append(m.rows, *v)
	return nil
}

func (m *mockDropdownRepo) Exists(_ context.Context, collegeID, field, value string) (bool, error) {
	for _, r := range m.rows {
		if r.CollegeID == collegeID && r.Field == field && r.Value == value {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDropdownRepo) ListByCollege(_ context.Context, collegeID string) ([]model.DropdownValue, error) {
	var list []model.DropdownValue
	for _, r := range m.rows {
		if r.CollegeID == collegeID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockDropdownRepo) Delete(_ context.Context, collegeID, id string) (bool, error) {
	for i, r := range m.rows {
		if r.ID == id && r.CollegeID == collegeID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ── Fakes for infrastructure ──

type mockStorage struct {
	saved   []string
	deleted []string
}

func (m *mockStorage) Save(_ context.Context, prefix, filename string, _ io.Reader) (string, error) {
	ref := "/uploads/" + prefix + "_" + filename + "_" + nextID("f")
	m.saved = append(m.saved, ref)
	return ref, nil
}

func (m *mockStorage) Delete(_ context.Context, ref string) error {
	m.deleted = append(m.deleted, ref)
	return nil
}

type mockMailer struct {
	sent []mailer.Message
}

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type publishedEvent struct {
	Type      string
	CollegeID string
}

type mockPublisher struct {
	events []publishedEvent
}

func (m *mockPublisher) Publish(_ context.Context, eventType, collegeID string, _ interface{}) error {
	m.events = append(m.events, publishedEvent{Type: eventType, CollegeID: collegeID})
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockBlacklist struct {
	tokens map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.tokens[jti] = ttl
	return nil
}

// ── Test fixture ──

type fixture struct {
	repo       *repository.Repository
	colleges   *mockCollegeRepo
	users      *mockUserRepo
	courses    *mockCourseRepo
	enrollment *mockEnrollmentRepo
	assignment *mockAssignmentRepo
	attendance *mockAttendanceRepo
	feeConfigs *mockFeeConfigRepo
	payments   *mockFeePaymentRepo
	results    *mockResultRepo
	dropdowns  *mockDropdownRepo
	storage    *mockStorage
	mailer     *mockMailer
	events     *mockPublisher
}

func newFixture() *fixture {
	colleges := newMockCollegeRepo()
	users := newMockUserRepo(colleges)
	courses := newMockCourseRepo()
	f := &fixture{
		colleges:   colleges,
		users:      users,
		courses:    courses,
		enrollment: &mockEnrollmentRepo{courses: courses, users: users},
		assignment: &mockAssignmentRepo{},
		attendance: &mockAttendanceRepo{},
		feeConfigs: &mockFeeConfigRepo{},
		payments:   &mockFeePaymentRepo{payments: make(map[string]*model.FeePayment), users: users},
		results:    &mockResultRepo{results: make(map[string]*model.Result), users: users},
		dropdowns:  &mockDropdownRepo{},
		storage:    &mockStorage{},
		mailer:     &mockMailer{},
		events:     &mockPublisher{},
	}
	f.repo = &repository.Repository{
		College:    f.colleges,
		User:       f.users,
		Course:     f.courses,
		Enrollment: f.enrollment,
		Assignment: f.assignment,
		Attendance: f.attendance,
		FeeConfig:  f.feeConfigs,
		FeePayment: f.payments,
		Result:     f.results,
		Dropdown:   f.dropdowns,
	}
	return f
}

func (f *fixture) addCollege(name, domain string) *model.College {
	c := &model.College{Name: name, Domain: domain}
	_ = f.colleges.Create(context.Background(), c)
	return c
}

func (f *fixture) addUser(collegeID, role, email string) *model.User {
	u := &model.User{Role: role, Name: strings.Split(email, "@")[0], Email: email, Verified: true}
	if collegeID != "" {
		id := collegeID
		u.CollegeID = &id
	}
	_ = f.users.Create(context.Background(), u)
	return f.users.users[u.ID]
}

func (f *fixture) addStudent(collegeID, email, program, branch, year string) *model.User {
	u := f.addUser(collegeID, model.RoleStudent, email)
	u.Program = program
	u.Branch = branch
	u.Year = year
	return u
}

func actorOf(u *model.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, CollegeID: u.CollegeIDValue()}
}
