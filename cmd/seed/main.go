// Command seed prepares a development database: the stage catalog, a demo
// tenant with an admin and a recruiter, and reference data to attach
// candidates to. It prints ready-to-use bearer tokens for both users.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbncursed/talentgate/pkg/config"
	"github.com/vbncursed/talentgate/pkg/directory"
	pgrepo "github.com/vbncursed/talentgate/pkg/repository/postgres"
	"github.com/vbncursed/talentgate/pkg/security/jwt"
	"github.com/vbncursed/talentgate/pkg/storage/postgres"
)

// Fixed ids keep reseeding idempotent and make the demo data addressable
// from scripts and docs.
var (
	tenantID    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	adminID     = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	recruiterID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	sourceID    = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	locationID  = uuid.MustParse("55555555-5555-5555-5555-555555555555")
	jobID       = uuid.MustParse("66666666-6666-6666-6666-666666666666")
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	ctx := context.Background()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pool.Close()

	// Constructing the stage repository seeds the default funnel.
	if _, err := pgrepo.NewStageRepository(pool); err != nil {
		log.Fatalf("seed stages: %v", err)
	}
	dir, err := pgrepo.NewDirectoryRepository(pool)
	if err != nil {
		log.Fatalf("init directory repo: %v", err)
	}

	if err := dir.PutTenant(ctx, tenantID, "Acme Recruiting"); err != nil {
		log.Fatalf("seed tenant: %v", err)
	}

	admin := directory.User{
		ID: adminID, TenantID: tenantID,
		Name: "Demo Admin", Email: "admin@acme.test", Role: directory.RoleAdmin,
	}
	recruiter := directory.User{
		ID: recruiterID, TenantID: tenantID,
		Name: "Demo Recruiter", Email: "recruiter@acme.test", Role: directory.RoleRecruiter,
	}
	for _, u := range []directory.User{admin, recruiter} {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		if err := dir.PutUser(ctx, u, string(hash)); err != nil {
			log.Fatalf("seed user %s: %v", u.Email, err)
		}
	}

	if err := dir.PutSource(ctx, directory.Source{ID: sourceID, TenantID: tenantID, Name: "LinkedIn"}); err != nil {
		log.Fatalf("seed source: %v", err)
	}
	if err := dir.PutLocation(ctx, directory.Location{ID: locationID, TenantID: tenantID, Name: "Bengaluru"}); err != nil {
		log.Fatalf("seed location: %v", err)
	}
	if err := dir.PutJob(ctx, directory.Job{
		ID: jobID, TenantID: tenantID,
		Title:       "Backend Engineer",
		Description: "We need a backend engineer with Node, TypeScript, SQL, MongoDB, Docker and AWS experience building REST APIs.",
	}); err != nil {
		log.Fatalf("seed job: %v", err)
	}

	gen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	for _, u := range []directory.User{admin, recruiter} {
		token, err := gen.Generate(ctx, u)
		if err != nil {
			log.Fatalf("issue token for %s: %v", u.Email, err)
		}
		fmt.Printf("%s (%s):\n  Bearer %s\n", u.Email, u.Role, token)
	}
	fmt.Printf("\ntenant=%s source=%s location=%s job=%s\n", tenantID, sourceID, locationID, jobID)
}
