package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/jwalitptl/patient-records/internal/config"
	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/internal/repository"
	"github.com/jwalitptl/patient-records/internal/repository/postgres"
	"github.com/jwalitptl/patient-records/pkg/logger"
	"github.com/jwalitptl/patient-records/pkg/security"
)

type seedUser struct {
	email    string
	name     string
	password string
	role     model.Role
}

type seedPatient struct {
	firstName   string
	lastName    string
	email       string
	phoneNumber string
	dob         string
}

var demoUsers = []seedUser{
	{"admin@example.com", "Admin User", "admin123", model.RoleAdmin},
	{"user@example.com", "Regular User", "user123", model.RoleUser},
}

var samplePatients = []seedPatient{
	{"John", "Doe", "john.doe@example.com", "+1-555-0101", "1985-03-15"},
	{"Jane", "Smith", "jane.smith@example.com", "+1-555-0102", "1990-07-22"},
	{"Michael", "Johnson", "michael.johnson@example.com", "+1-555-0103", "1978-11-08"},
	{"Emily", "Davis", "emily.davis@example.com", "+1-555-0104", "1992-05-30"},
	{"David", "Wilson", "david.wilson@example.com", "+1-555-0105", "1987-09-12"},
	{"Sarah", "Brown", "sarah.brown@example.com", "+1-555-0106", "1995-01-18"},
	{"Robert", "Miller", "robert.miller@example.com", "+1-555-0107", "1982-06-25"},
	{"Lisa", "Anderson", "lisa.anderson@example.com", "+1-555-0108", "1988-12-03"},
}

func main() {
	log := logger.NewLogger(nil).WithComponent("seed")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := postgres.NewUserRepository(db)
	patients := postgres.NewPatientRepository(db)
	hasher := security.NewBcryptHasher(0)

	for _, u := range demoUsers {
		hash, err := hasher.Hash(u.password)
		if err != nil {
			log.Fatal(err, "failed to hash password", "email", u.email)
		}
		err = users.Upsert(ctx, &model.User{
			ID:           uuid.New(),
			Email:        u.email,
			Name:         u.name,
			PasswordHash: hash,
			Role:         u.role,
		})
		if err != nil {
			log.Fatal(err, "failed to seed user", "email", u.email)
		}
		log.Info("seeded user", "email", u.email, "role", string(u.role))
	}

	created := 0
	for _, p := range samplePatients {
		dob, err := model.ParseDate(p.dob)
		if err != nil {
			log.Fatal(err, "invalid date of birth", "email", p.email)
		}
		err = patients.Create(ctx, &model.Patient{
			FirstName:   p.firstName,
			LastName:    p.lastName,
			Email:       p.email,
			PhoneNumber: p.phoneNumber,
			DOB:         dob,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			log.Fatal(err, "failed to seed patient", "email", p.email)
		}
		created++
	}

	log.Info("seeding complete", "users", len(demoUsers), "patients_created", created)
}
