package services

import (
	"errors"
	"strings"
	"sync"

	"github.com/pointspay/ledger-backend/internal/api/validate"
	"github.com/pointspay/ledger-backend/internal/config"
	"github.com/pointspay/ledger-backend/internal/models"
	repo "github.com/pointspay/ledger-backend/internal/repository"
)

type UserService struct {
	r     repo.Users
	audit *Auditor
	cfg   config.Config
	mu    *sync.Mutex // shared with LedgerService, one operation at a time
}

func NewUserService(r repo.Users, audit *Auditor, cfg config.Config, mu *sync.Mutex) *UserService {
	return &UserService{r: r, audit: audit, cfg: cfg, mu: mu}
}

type CreateUserInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func (s *UserService) Create(in CreateUserInput) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	var errs validate.Errs
	for _, ef := range []*validate.ErrField{
		validate.Required("first_name", in.FirstName),
		validate.Required("last_name", in.LastName),
		validate.Required("email", in.Email),
	} {
		if ef != nil {
			errs = append(errs, *ef)
		}
	}
	if s.cfg.RewardsEnabled {
		if ef := validate.Required("phone_number", in.PhoneNumber); ef != nil {
			errs = append(errs, *ef)
		}
	}
	if len(errs) > 0 {
		return models.User{}, models.InvalidPayload("%s", errs.Error())
	}
	if ef := validate.Email("email", in.Email); ef != nil {
		return models.User{}, models.InvalidPayload("%s", ef.Msg)
	}
	if s.cfg.RewardsEnabled {
		if ef := validate.Phone("phone_number", in.PhoneNumber); ef != nil {
			return models.User{}, models.InvalidPayload("%s", ef.Msg)
		}
	}

	taken, err := s.r.EmailTaken(in.Email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, models.InvalidPayload("Email already exists")
	}

	u := models.User{
		Username:  models.DeriveUsername(in.FirstName, in.LastName),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}
	if s.cfg.RewardsEnabled {
		u.PhoneNumber = in.PhoneNumber
	}
	created, err := s.r.Create(u)
	if err != nil {
		return models.User{}, err
	}
	s.audit.Record("user", created.ID, "created", map[string]any{"email": created.Email})
	return created, nil
}

func (s *UserService) List() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.List()
}

func (s *UserService) Balance(id uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.r.Get(id)
	if err != nil {
		return 0, userErr(err)
	}
	return u.Balance, nil
}

func (s *UserService) Points(id uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.r.Get(id)
	if err != nil {
		return 0, userErr(err)
	}
	return u.Points, nil
}

func userErr(err error) error {
	if errors.Is(err, repo.ErrNotExist) {
		return models.NotFound("User not found")
	}
	return err
}
