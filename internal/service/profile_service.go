package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"college-erp/internal/dto"
	"college-erp/internal/model"
	"college-erp/internal/repository"
	"college-erp/pkg/storage"
)

// ── profile errors ──

var (
	ErrInvalidDocumentKind = errors.New("unknown document kind")
	ErrPhotoNotAllowed     = errors.New("only first-year students may upload their own photo")
	ErrPhotoExists         = errors.New("photo already uploaded")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrProfileConflict     = errors.New("email, enrollment or roll number already in use")
)

// ProfileService student profiles and documents
type ProfileService interface {
	ListStudents(ctx context.Context, actor Actor, req *dto.StudentListRequest) ([]dto.StudentSummary, int64, error)
	GetProfile(ctx context.Context, actor Actor, id string) (*model.User, error)
	UpdateStudentProfile(ctx context.Context, actor Actor, id string, req *dto.UpdateProfileRequest) (*model.User, error)
	UploadDocument(ctx context.Context, actor Actor, id, kind string, file *dto.Upload) (*dto.DocumentResponse, error)
	UploadOwnPhoto(ctx context.Context, actor Actor, file *dto.Upload) (*dto.DocumentResponse, error)
	UpdateOwnContact(ctx context.Context, actor Actor, req *dto.UpdateContactRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, actor Actor, id string) error
}

type profileService struct {
	repo    *repository.Repository
	storage storage.Storage
	logger  *zap.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(repo *repository.Repository, store storage.Storage, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, storage: store, logger: logger}
}

func (s *profileService) ListStudents(ctx context.Context, actor Actor, req *dto.StudentListRequest) ([]dto.StudentSummary, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, ErrForbidden
	}
	filter := repository.StudentFilter{
		Program: strings.TrimSpace(req.Program),
		Branch:  strings.TrimSpace(req.Branch),
		Year:    strings.TrimSpace(req.Year),
		Section: strings.TrimSpace(req.Section),
		Keyword: strings.TrimSpace(req.Keyword),
	}
	users, total, err := s.repo.User.ListStudents(ctx, actor.CollegeID, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list students failed", zap.String("college_id", actor.CollegeID), zap.Error(err))
		return nil, 0, err
	}
	list := make([]dto.StudentSummary, 0, len(users))
	for i := range users {
		list = append(list, toStudentSummary(&users[i]))
	}
	return list, total, nil
}

func (s *profileService) GetProfile(ctx context.Context, actor Actor, id string) (*model.User, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.UserID {
		return user, nil
	}
	if actor.IsAdmin() && user.CollegeIDValue() == actor.CollegeID {
		return user, nil
	}
	return nil, ErrForbidden
}

// ────── Admin profile editing ──────

func (s *profileService) UpdateStudentProfile(ctx context.Context, actor Actor, id string, req *dto.UpdateProfileRequest) (*model.User, error) {
	user, err := s.collegeStudent(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if err := s.checkEmail(ctx, user, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			user.Name = name
		}
	}

	setOptional(&user.EnrollmentNo, req.EnrollmentNo)
	setOptional(&user.RollNo, req.RollNo)

	setString(&user.ScholarNo, req.ScholarNo)
	setString(&user.Program, req.Program)
	setString(&user.Branch, req.Branch)
	setString(&user.Year, req.Year)
	setString(&user.Section, req.Section)
	setString(&user.Semester, req.Semester)
	setString(&user.ClassName, req.ClassName)
	setString(&user.Gender, req.Gender)
	setString(&user.Nationality, req.Nationality)
	setString(&user.Religion, req.Religion)
	setString(&user.AadhaarNo, req.AadhaarNo)
	setString(&user.BloodGroup, req.BloodGroup)
	setString(&user.Contact, req.Contact)
	setString(&user.MotherTongue, req.MotherTongue)
	setString(&user.MaritalStatus, req.MaritalStatus)
	setString(&user.SamagraID, req.SamagraID)
	setString(&user.Category, req.Category)
	setString(&user.DomicileState, req.DomicileState)

	setString(&user.FatherName, req.FatherName)
	setString(&user.FatherNameHindi, req.FatherNameHindi)
	setString(&user.FatherMobile, req.FatherMobile)
	setString(&user.MotherName, req.MotherName)
	setString(&user.MotherNameHindi, req.MotherNameHindi)
	setString(&user.MotherMobile, req.MotherMobile)

	setString(&user.PermanentAddress, req.PermanentAddress)
	setString(&user.PermanentCity, req.PermanentCity)
	setString(&user.PermanentState, req.PermanentState)
	setString(&user.PermanentPin, req.PermanentPin)
	setString(&user.LocalAddress, req.LocalAddress)
	setString(&user.LocalCity, req.LocalCity)
	setString(&user.LocalState, req.LocalState)
	setString(&user.LocalPin, req.LocalPin)

	setString(&user.BankName, req.BankName)
	setString(&user.BankBranch, req.BankBranch)
	setString(&user.BankAccountNo, req.BankAccountNo)
	setString(&user.BankIFSC, req.BankIFSC)

	if req.DOB != nil {
		if user.DOB, err = ParseFlexibleDate(*req.DOB); err != nil {
			return nil, err
		}
	}
	if req.AdmissionDate != nil {
		if user.AdmissionDate, err = ParseFlexibleDate(*req.AdmissionDate); err != nil {
			return nil, err
		}
	}
	if req.FatherIncome != nil {
		if user.FatherIncome, err = ParseAmount(*req.FatherIncome); err != nil {
			return nil, err
		}
	}
	if req.MotherIncome != nil {
		if user.MotherIncome, err = ParseAmount(*req.MotherIncome); err != nil {
			return nil, err
		}
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProfileConflict
		}
		s.logger.Error("update profile failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *profileService) checkEmail(ctx context.Context, user *model.User, email string) error {
	if user.College != nil && !emailMatchesDomain(email, user.College.Domain) {
		return ErrEmailDomainMismatch
	}
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup email failed", zap.Error(err))
		return err
	}
	return nil
}

// setString applies an optional field; nil leaves it, blank clears it.
func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// setOptional is setString for nullable unique columns; blank stores NULL.
func setOptional(dst **string, v *string) {
	if v == nil {
		return
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}

// ────── Documents ──────

func (s *profileService) UploadDocument(ctx context.Context, actor Actor, id, kind string, file *dto.Upload) (*dto.DocumentResponse, error) {
	user, err := s.collegeStudent(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.storeDocument(ctx, user, kind, file)
}

func (s *profileService) UploadOwnPhoto(ctx context.Context, actor Actor, file *dto.Upload) (*dto.DocumentResponse, error) {
	user, err := s.loadUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != model.RoleStudent || !user.IsFirstYear() {
		return nil, ErrPhotoNotAllowed
	}
	if user.Photo != "" {
		return nil, ErrPhotoExists
	}
	return s.storeDocument(ctx, user, model.DocPhoto, file)
}

func (s *profileService) storeDocument(ctx context.Context, user *model.User, kind string, file *dto.Upload) (*dto.DocumentResponse, error) {
	column, ok := model.DocumentColumn(kind)
	if !ok {
		return nil, ErrInvalidDocumentKind
	}
	check := storage.CheckDocument
	if kind == model.DocPhoto || kind == model.DocSignature {
		check = storage.CheckImage
	}
	if err := check(file.Filename); err != nil {
		return nil, err
	}

	previous, _ := user.DocumentRef(kind)
	ref, err := s.storage.Save(ctx, kind, file.Filename, file.Reader)
	if err != nil {
		s.logger.Error("store document failed", zap.String("user_id", user.ID), zap.String("kind", kind), zap.Error(err))
		return nil, err
	}
	if err := s.repo.User.UpdateFields(ctx, user.ID, map[string]interface{}{column: ref}); err != nil {
		s.discard(ctx, ref)
		s.logger.Error("save document reference failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	if previous != "" && previous != ref {
		s.discard(ctx, previous)
	}
	return &dto.DocumentResponse{Kind: kind, URL: ref}, nil
}

// ────── Self service ──────

func (s *profileService) UpdateOwnContact(ctx context.Context, actor Actor, req *dto.UpdateContactRequest) (*dto.UserResponse, error) {
	user, err := s.loadUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]interface{}, 2)
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			fields["name"] = name
			user.Name = name
		}
	}
	if req.Contact != nil {
		contact := strings.TrimSpace(*req.Contact)
		fields["contact"] = contact
		user.Contact = contact
	}
	if len(fields) > 0 {
		if err := s.repo.User.UpdateFields(ctx, user.ID, fields); err != nil {
			s.logger.Error("update contact failed", zap.String("user_id", user.ID), zap.Error(err))
			return nil, err
		}
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *profileService) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if id == actor.UserID {
		return ErrCannotDeleteSelf
	}
	user, err := s.collegeMember(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}
	for _, kind := range []string{model.DocPhoto, model.DocSignature, model.DocIDCard, model.DocCertificate, model.DocTranscript} {
		if ref, _ := user.DocumentRef(kind); ref != "" {
			s.discard(ctx, ref)
		}
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", actor.UserID))
	return nil
}

// ── helpers ──

func (s *profileService) loadUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load user failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// collegeMember loads a user the admin actor may manage. Users of other
// colleges are reported as missing.
func (s *profileService) collegeMember(ctx context.Context, actor Actor, id string) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.CollegeIDValue() != actor.CollegeID {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// collegeStudent is collegeMember restricted to Student accounts.
func (s *profileService) collegeStudent(ctx context.Context, actor Actor, id string) (*model.User, error) {
	user, err := s.collegeMember(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.Role != model.RoleStudent {
		return nil, ErrNotAStudent
	}
	return user, nil
}

func (s *profileService) discard(ctx context.Context, ref string) {
	if err := s.storage.Delete(ctx, ref); err != nil {
		s.logger.Warn("delete stored file failed", zap.String("ref", ref), zap.Error(err))
	}
}

func toStudentSummary(u *model.User) dto.StudentSummary {
	s := dto.StudentSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		RollNo:   u.RollNoValue(),
		Program:  u.Program,
		Branch:   u.Branch,
		Year:     u.Year,
		Section:  u.Section,
		Verified: u.Verified,
	}
	if u.EnrollmentNo != nil {
		s.EnrollmentNo = *u.EnrollmentNo
	}
	return s
}
