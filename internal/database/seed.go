package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/config"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/repository"
	"github.com/P3chys/studyshare-api/internal/utils"
)

const (
	DemoStudentEmail    = "student@studyshare.local"
	DemoStudentPassword = "StudentPassword123!"
)

// SeedAdmin creates the configured admin account unless that email is
// already registered.
func SeedAdmin(ctx context.Context, users repository.UserRepository, cfg *config.Config, log *zap.Logger) error {
	if _, err := users.FindByEmail(ctx, cfg.AdminEmail); err == nil {
		log.Info("admin user already exists, skipping seed")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, &admin); err != nil {
		return err
	}

	log.Info("created default admin user", zap.String("email", cfg.AdminEmail))
	return nil
}

// SeedDemoData fills an empty store with a demo student and a handful of
// resources and requests.
func SeedDemoData(ctx context.Context, store repository.Store, log *zap.Logger) error {
	count, err := store.Resources.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("resources already present, skipping demo seed")
		return nil
	}

	student, err := seedStudent(ctx, store.Users)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	// Created oldest first so the newest ends up at the front.
	for i, r := range demoResources() {
		r.UploadedAt = now.Add(-time.Duration(len(demoResources())-i) * 24 * time.Hour)
		if r.DownloadURL == "" {
			r.DownloadURL = models.PlaceholderDownloadURL
		}
		if err := store.Resources.Create(ctx, &r); err != nil {
			return fmt.Errorf("seeding resource %q: %w", r.Title, err)
		}
	}

	for i, req := range demoRequests() {
		req.RequestedBy = student.Name
		req.RequesterID = student.ID
		req.RequestedAt = now.Add(-time.Duration(len(demoRequests())-i) * time.Hour)
		if err := store.Requests.Create(ctx, &req); err != nil {
			return fmt.Errorf("seeding request %q: %w", req.Topic, err)
		}
	}

	log.Info("seeded demo data",
		zap.Int("resources", len(demoResources())),
		zap.Int("requests", len(demoRequests())))
	return nil
}

func seedStudent(ctx context.Context, users repository.UserRepository) (*models.User, error) {
	if existing, err := users.FindByEmail(ctx, DemoStudentEmail); err == nil {
		return existing, nil
	}

	hash, err := utils.HashPassword(DemoStudentPassword)
	if err != nil {
		return nil, err
	}
	student := models.User{
		Name:         "Alex Student",
		Email:        DemoStudentEmail,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		Branch:       "CSE",
		Semester:     5,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func demoResources() []models.Resource {
	return []models.Resource{
		{Title: "Data Structures Endsem 2023", Type: models.ResourcePYQ, Branch: "CSE", Semester: 3, Subject: "Data Structures", Year: 2023, ExamType: models.ExamEndsem, Downloads: 142, Likes: 31, UploadedBy: "Admin User", Tags: []string{"trees", "graphs"}},
		{Title: "Operating Systems Unit 1-3 Notes", Type: models.ResourceNote, Branch: "CSE", Semester: 5, Subject: "Operating Systems", Author: "Prof. Sharma", Downloads: 210, Likes: 54, UploadedBy: "Alex Student", Tags: []string{"scheduling", "memory"}},
		{Title: "Signals and Systems Midsem 2022", Type: models.ResourcePYQ, Branch: "ECE", Semester: 4, Subject: "Signals and Systems", Year: 2022, ExamType: models.ExamMidsem, Downloads: 87, Likes: 12, UploadedBy: "Admin User"},
		{Title: "Thermodynamics Syllabus", Type: models.ResourceSyllabus, Branch: "ME", Semester: 3, Subject: "Thermodynamics", Downloads: 45, Likes: 3, UploadedBy: "Admin User"},
		{Title: "Database System Concepts", Type: models.ResourceBook, Branch: "CSE", Semester: 5, Subject: "Database Systems", Author: "Silberschatz, Korth, Sudarshan", Downloads: 176, Likes: 40, UploadedBy: "Admin User", Tags: []string{"sql", "normalization"}},
		{Title: "Control Systems Quick Revision", Type: models.ResourceNote, Branch: "EE", Semester: 5, Subject: "Control Systems", Downloads: 98, Likes: 22, UploadedBy: "Alex Student"},
	}
}

func demoRequests() []models.MaterialRequest {
	return []models.MaterialRequest{
		{Topic: "Compiler Design PYQs 2021-2023", Type: models.ResourcePYQ, Branch: "CSE", Semester: 6, Subject: "Compiler Design", Status: models.RequestPending},
		{Topic: "Computer Networks lab manual", Type: models.ResourceNote, Branch: "CSE", Semester: 5, Subject: "Computer Networks", Status: models.RequestPending},
	}
}
