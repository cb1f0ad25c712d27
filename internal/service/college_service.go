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

// ── college errors ──

var (
	ErrCollegeNotFound     = errors.New("college not found")
	ErrCollegeNameExists   = errors.New("college name already exists")
	ErrCollegeDomainExists = errors.New("college domain already exists")
	ErrCollegeHasUsers     = errors.New("college still has users")
	ErrInvalidDomain       = errors.New("invalid college domain")
	ErrDomainInUse         = errors.New("college domain cannot change while the college has users")
)

// CollegeService tenant management
type CollegeService interface {
	List(ctx context.Context) ([]dto.CollegeResponse, error)
	Get(ctx context.Context, id string) (*dto.CollegeResponse, error)
	Create(ctx context.Context, req *dto.CreateCollegeRequest, logo *dto.Upload) (*dto.CollegeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCollegeRequest, logo *dto.Upload) (*dto.CollegeResponse, error)
	Delete(ctx context.Context, id string) error
	// UpdateOwn lets an Admin rename their college or replace its logo.
	UpdateOwn(ctx context.Context, actor Actor, req *dto.UpdateOwnCollegeRequest, logo *dto.Upload) (*dto.CollegeResponse, error)
}

type collegeService struct {
	repo    *repository.Repository
	storage storage.Storage
	logger  *zap.Logger
}

// NewCollegeService creates a CollegeService.
func NewCollegeService(repo *repository.Repository, store storage.Storage, logger *zap.Logger) CollegeService {
	return &collegeService{repo: repo, storage: store, logger: logger}
}

func (s *collegeService) List(ctx context.Context) ([]dto.CollegeResponse, error) {
	colleges, err := s.repo.College.List(ctx)
	if err != nil {
		s.logger.Error("list colleges failed", zap.Error(err))
		return nil, err
	}
	list := make([]dto.CollegeResponse, 0, len(colleges))
	for i := range colleges {
		count, err := s.repo.College.CountUsers(ctx, colleges[i].ID)
		if err != nil {
			s.logger.Error("count college users failed", zap.String("college_id", colleges[i].ID), zap.Error(err))
			return nil, err
		}
		list = append(list, toCollegeResponse(&colleges[i], count))
	}
	return list, nil
}

func (s *collegeService) Get(ctx context.Context, id string) (*dto.CollegeResponse, error) {
	college, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.College.CountUsers(ctx, id)
	if err != nil {
		s.logger.Error("count college users failed", zap.String("college_id", id), zap.Error(err))
		return nil, err
	}
	resp := toCollegeResponse(college, count)
	return &resp, nil
}

func (s *collegeService) Create(ctx context.Context, req *dto.CreateCollegeRequest, logo *dto.Upload) (*dto.CollegeResponse, error) {
	name := strings.TrimSpace(req.Name)
	domain := normalizeDomain(req.Domain)
	if domain == "" || strings.Contains(domain, "@") {
		return nil, ErrInvalidDomain
	}
	if err := s.checkUnique(ctx, "", name, domain); err != nil {
		return nil, err
	}

	college := &model.College{Name: name, Domain: domain}
	if logo != nil {
		ref, err := s.saveLogo(ctx, logo)
		if err != nil {
			return nil, err
		}
		college.Logo = ref
	}

	if err := s.repo.College.Create(ctx, college); err != nil {
		s.discard(ctx, college.Logo)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCollegeNameExists
		}
		s.logger.Error("create college failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	resp := toCollegeResponse(college, 0)
	return &resp, nil
}

func (s *collegeService) Update(ctx context.Context, id string, req *dto.UpdateCollegeRequest, logo *dto.Upload) (*dto.CollegeResponse, error) {
	college, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	name := college.Name
	if n := strings.TrimSpace(req.Name); n != "" {
		name = n
	}
	domain := college.Domain
	if req.Domain != "" {
		domain = normalizeDomain(req.Domain)
		if domain == "" || strings.Contains(domain, "@") {
			return nil, ErrInvalidDomain
		}
	}
	// member emails are bound to the domain they registered under
	if domain != college.Domain {
		count, err := s.repo.College.CountUsers(ctx, id)
		if err != nil {
			s.logger.Error("count college users failed", zap.String("college_id", id), zap.Error(err))
			return nil, err
		}
		if count > 0 {
			return nil, ErrDomainInUse
		}
	}
	if err := s.checkUnique(ctx, id, name, domain); err != nil {
		return nil, err
	}
	college.Name = name
	college.Domain = domain

	return s.applyLogoAndSave(ctx, college, logo, req.RemoveLogo)
}

func (s *collegeService) UpdateOwn(ctx context.Context, actor Actor, req *dto.UpdateOwnCollegeRequest, logo *dto.Upload) (*dto.CollegeResponse, error) {
	if !actor.IsAdmin() || actor.CollegeID == "" {
		return nil, ErrForbidden
	}
	college, err := s.load(ctx, actor.CollegeID)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(req.Name); n != "" && n != college.Name {
		if err := s.checkUnique(ctx, college.ID, n, college.Domain); err != nil {
			return nil, err
		}
		college.Name = n
	}
	return s.applyLogoAndSave(ctx, college, logo, false)
}

// applyLogoAndSave stores the new logo, saves the row, then removes the replaced file.
func (s *collegeService) applyLogoAndSave(ctx context.Context, college *model.College, logo *dto.Upload, remove bool) (*dto.CollegeResponse, error) {
	oldLogo := college.Logo
	switch {
	case logo != nil:
		ref, err := s.saveLogo(ctx, logo)
		if err != nil {
			return nil, err
		}
		college.Logo = ref
	case remove:
		college.Logo = ""
	}

	if err := s.repo.College.Update(ctx, college); err != nil {
		if college.Logo != oldLogo {
			s.discard(ctx, college.Logo)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCollegeNameExists
		}
		s.logger.Error("update college failed", zap.String("college_id", college.ID), zap.Error(err))
		return nil, err
	}
	if oldLogo != "" && oldLogo != college.Logo {
		s.discard(ctx, oldLogo)
	}

	count, err := s.repo.College.CountUsers(ctx, college.ID)
	if err != nil {
		s.logger.Error("count college users failed", zap.String("college_id", college.ID), zap.Error(err))
		return nil, err
	}
	resp := toCollegeResponse(college, count)
	return &resp, nil
}

func (s *collegeService) Delete(ctx context.Context, id string) error {
	college, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.College.CountUsers(ctx, id)
	if err != nil {
		s.logger.Error("count college users failed", zap.String("college_id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrCollegeHasUsers
	}
	if err := s.repo.College.Delete(ctx, id); err != nil {
		s.logger.Error("delete college failed", zap.String("college_id", id), zap.Error(err))
		return err
	}
	s.discard(ctx, college.Logo)
	return nil
}

// ── helpers ──

func (s *collegeService) load(ctx context.Context, id string) (*model.College, error) {
	college, err := s.repo.College.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		s.logger.Error("load college failed", zap.String("college_id", id), zap.Error(err))
		return nil, err
	}
	return college, nil
}

// checkUnique rejects a name or domain held by another college than selfID.
func (s *collegeService) checkUnique(ctx context.Context, selfID, name, domain string) error {
	if other, err := s.repo.College.GetByName(ctx, name); err == nil {
		if other.ID != selfID {
			return ErrCollegeNameExists
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup college name failed", zap.Error(err))
		return err
	}
	if other, err := s.repo.College.GetByDomain(ctx, domain); err == nil {
		if other.ID != selfID {
			return ErrCollegeDomainExists
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup college domain failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *collegeService) saveLogo(ctx context.Context, logo *dto.Upload) (string, error) {
	if err := storage.CheckImage(logo.Filename); err != nil {
		return "", err
	}
	ref, err := s.storage.Save(ctx, "logo", logo.Filename, logo.Reader)
	if err != nil {
		s.logger.Error("store logo failed", zap.String("filename", logo.Filename), zap.Error(err))
		return "", err
	}
	return ref, nil
}

func (s *collegeService) discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.storage.Delete(ctx, ref); err != nil {
		s.logger.Warn("delete stored file failed", zap.String("ref", ref), zap.Error(err))
	}
}

func toCollegeResponse(c *model.College, users int64) dto.CollegeResponse {
	return dto.CollegeResponse{
		ID:        c.ID,
		Name:      c.Name,
		Domain:    c.Domain,
		Logo:      c.Logo,
		UserCount: users,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}
