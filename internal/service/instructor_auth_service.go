package service

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/utils"
)

type InstructorAuthService struct {
	instructorRepo *repository.InstructorRepository
}

func NewInstructorAuthService(instructorRepo *repository.InstructorRepository) *InstructorAuthService {
	return &InstructorAuthService{instructorRepo: instructorRepo}
}

func (s *InstructorAuthService) Login(email, password string) (string, error) {
	log.Debug().Str("email", email).Msg("Instructor login attempt")

	user, err := s.instructorRepo.GetByEmail(email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to get instructor by email")
		return "", errors.New("invalid credentials")
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return "", errors.New("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Password verification failed")
		return "", errors.New("invalid credentials")
	}

	log.Info().Str("email", email).Msg("Instructor login successful")

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *InstructorAuthService) CreateInstructor(email, password, name string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.InstructorUser{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}
	return s.instructorRepo.Create(user)
}
