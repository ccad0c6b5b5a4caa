// Command eas_seed loads a YAML fixture of companies, users and workflows into postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/platform/config"
	"github.com/SscSPs/expense_approval_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/expense_approval_app/internal/utils"
	"github.com/SscSPs/expense_approval_app/pkg/database"
	"gopkg.in/yaml.v3"
)

const seedActor = "seed"

type seedFile struct {
	Companies []seedCompany `yaml:"companies"`
}

type seedCompany struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	BaseCurrency string         `yaml:"baseCurrency"`
	Users        []seedUser     `yaml:"users"`
	Workflows    []seedWorkflow `yaml:"workflows"`
}

type seedUser struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
	ManagerID string `yaml:"managerID"`
}

type seedWorkflow struct {
	ID                    string     `yaml:"id"`
	Name                  string     `yaml:"name"`
	ManagerFirst          *bool      `yaml:"managerFirst"`
	MinApprovalPercentage *int       `yaml:"minApprovalPercentage"`
	SpecialApproverID     string     `yaml:"specialApproverID"`
	Steps                 []seedStep `yaml:"steps"`
}

type seedStep struct {
	ID         string `yaml:"id"`
	StepNumber int    `yaml:"stepNumber"`
	ApproverID string `yaml:"approverID"`
	Required   bool   `yaml:"required"`
}

func main() {
	path := flag.String("file", "seed/dev_seed.yaml", "path to the seed fixture")
	migrate := flag.Bool("migrate", true, "apply migrations before seeding")
	printTokens := flag.Bool("print-tokens", false, "log a signed dev token for every seeded user")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fixture, err := readFixture(*path)
	if err != nil {
		logger.Error("Failed to read seed file", slog.String("file", *path), slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(pool)

	if *migrate {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	repos := pgsql.NewRepositoryProvider(pool)
	if err := seed(ctx, repos, fixture, time.Now().UTC()); err != nil {
		logger.Error("Seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Seed applied", slog.String("file", *path), slog.Int("companies", len(fixture.Companies)))

	if *printTokens {
		for _, c := range fixture.Companies {
			for _, u := range c.Users {
				user := toUser(c.ID, u, time.Now())
				token, err := utils.GenerateJWT(domain.Principal{
					UserID:    user.UserID,
					CompanyID: user.CompanyID,
					Role:      user.Role,
					ManagerID: user.ManagerID,
				}, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
				if err != nil {
					logger.Error("Failed to sign dev token", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
					os.Exit(1)
				}
				logger.Info("Dev token", slog.String("user", user.Name), slog.String("user_id", user.UserID), slog.String("token", token))
			}
		}
	}
}

func readFixture(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("invalid seed yaml: %w", err)
	}
	return &f, nil
}

func seed(ctx context.Context, repos portsrepo.RepositoryProvider, f *seedFile, now time.Time) error {
	for _, c := range f.Companies {
		company := domain.Company{CompanyID: c.ID, Name: c.Name, BaseCurrency: c.BaseCurrency, AuditFields: domain.NewAuditFields(seedActor, now)}
		if err := repos.CompanyRepo.SaveCompany(ctx, company); err != nil {
			return fmt.Errorf("company %s: %w", c.ID, err)
		}

		users, err := managersFirst(c.Users)
		if err != nil {
			return fmt.Errorf("company %s: %w", c.ID, err)
		}
		for _, u := range users {
			if err := repos.UserRepo.SaveUser(ctx, toUser(c.ID, u, now)); err != nil {
				return fmt.Errorf("user %s: %w", u.ID, err)
			}
		}

		for _, w := range c.Workflows {
			wf := toWorkflow(c.ID, w, now)
			if err := wf.Validate(); err != nil {
				return fmt.Errorf("workflow %s: %w", w.ID, err)
			}
			if err := repos.WorkflowRepo.SaveWorkflow(ctx, wf); err != nil {
				return fmt.Errorf("workflow %s: %w", w.ID, err)
			}
		}
	}
	return nil
}

// managersFirst orders users so every manager is inserted before its reports.
func managersFirst(users []seedUser) ([]seedUser, error) {
	pending := make(map[string]seedUser, len(users))
	for _, u := range users {
		pending[u.ID] = u
	}
	ordered := make([]seedUser, 0, len(users))
	placed := make(map[string]bool, len(users))
	for len(ordered) < len(users) {
		progress := false
		for _, u := range users {
			if placed[u.ID] {
				continue
			}
			_, managerInFile := pending[u.ManagerID]
			if u.ManagerID == "" || !managerInFile || placed[u.ManagerID] {
				ordered = append(ordered, u)
				placed[u.ID] = true
				progress = true
			}
		}
		if !progress {
			return nil, fmt.Errorf("manager references in seed users form a cycle")
		}
	}
	return ordered, nil
}

func toUser(companyID string, u seedUser, now time.Time) domain.User {
	user := domain.User{
		UserID:      u.ID,
		CompanyID:   companyID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        domain.UserRole(u.Role),
		AuditFields: domain.NewAuditFields(seedActor, now),
	}
	if user.Role == "" {
		user.Role = domain.RoleEmployee
	}
	if u.ManagerID != "" {
		managerID := u.ManagerID
		user.ManagerID = &managerID
	}
	return user
}

func toWorkflow(companyID string, w seedWorkflow, now time.Time) domain.ApprovalWorkflow {
	wf := domain.ApprovalWorkflow{
		WorkflowID:             w.ID,
		CompanyID:              companyID,
		Name:                   w.Name,
		IsManagerFirstApprover: w.ManagerFirst == nil || *w.ManagerFirst,
		MinApprovalPercentage:  w.MinApprovalPercentage,
		Steps:                  make([]domain.WorkflowStep, len(w.Steps)),
		AuditFields:            domain.NewAuditFields(seedActor, now),
	}
	if w.SpecialApproverID != "" {
		special := w.SpecialApproverID
		wf.SpecialApproverID = &special
	}
	for i, s := range w.Steps {
		wf.Steps[i] = domain.WorkflowStep{
			StepID:     s.ID,
			WorkflowID: w.ID,
			StepNumber: s.StepNumber,
			ApproverID: s.ApproverID,
			IsRequired: s.Required,
		}
	}
	return wf
}
