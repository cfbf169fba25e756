package main

import (
	"context"
	"fmt"
	"time"

	"github.com/markbook/markbook-backend/internal/config"
	"github.com/markbook/markbook-backend/internal/database"
	"github.com/markbook/markbook-backend/internal/logger"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/markbook/markbook-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a small demo dataset: one staff account, one course with weighted
// assessment types, one section, one student, and a handful of scores so the
// gradebook endpoints return something interesting out of the box.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	staffRepo := repository.NewStaffRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	sectionRepo := repository.NewSectionRepository(pool)
	typeRepo := repository.NewAssessmentTypeRepository(pool)
	weightRepo := repository.NewWeightConfigRepository(pool)
	columnRepo := repository.NewColumnRepository(pool)
	entryRepo := repository.NewEntryRepository(pool)
	changeRepo := repository.NewChangeRepository(pool)
	finalRepo := repository.NewFinalMarkRepository(pool)

	queue := service.NewRecomputeQueue(rdb, log)
	gradebookService := service.NewGradebookService(
		cfg, sectionRepo, courseRepo, studentRepo, typeRepo,
		columnRepo, entryRepo, changeRepo, finalRepo, weightRepo, rdb, log,
	)
	markService := service.NewMarkService(
		pool, sectionRepo, courseRepo, columnRepo, entryRepo,
		changeRepo, finalRepo, weightRepo, gradebookService, rdb, log,
	)
	sectionService := service.NewSectionService(sectionRepo, courseRepo, studentRepo, markService, rdb, log)
	columnService := service.NewColumnService(pool, sectionRepo, columnRepo, entryRepo, weightRepo, queue, rdb, log)

	fmt.Println("=== Seeding Demo Data ===")

	// Staff
	hash, err := bcrypt.GenerateFromPassword([]byte("teachme"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}
	staff := &model.Staff{
		Name:         "Dewi Anggraini",
		Email:        "dewi@markbook.local",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := staffRepo.Create(ctx, staff); err != nil {
		log.Fatal().Err(err).Msg("Failed to create staff")
	}
	fmt.Printf("Created staff %q (login: %s / teachme)\n", staff.Name, staff.Email)

	// Course with a 6.0 pass threshold
	threshold := 6.0
	course := &model.Course{Code: "ALG1", Name: "Algebra I", MinGpaToPass: &threshold}
	if err := courseRepo.Create(ctx, course); err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}

	// Assessment types and weights: Quiz 30% HIGHEST, Midterm 50% LATEST,
	// Final Exam 20% AVERAGE.
	typeNames := []string{"Quiz", "Midterm", "Final Exam"}
	typeIDs := make([]int, len(typeNames))
	for i, name := range typeNames {
		t := &model.AssessmentType{Name: name}
		if err := typeRepo.Create(ctx, t); err != nil {
			log.Fatal().Err(err).Msgf("Failed to create assessment type %q", name)
		}
		typeIDs[i] = t.ID
	}
	weights := []model.WeightConfig{
		{CourseID: course.ID, AssessmentTypeID: typeIDs[0], Weight: 0.30, Method: "HIGHEST"},
		{CourseID: course.ID, AssessmentTypeID: typeIDs[1], Weight: 0.50, Method: "LATEST"},
		{CourseID: course.ID, AssessmentTypeID: typeIDs[2], Weight: 0.20, Method: "AVERAGE"},
	}
	if err := weightRepo.ReplaceForCourse(ctx, course.ID, weights); err != nil {
		log.Fatal().Err(err).Msg("Failed to create weight configs")
	}

	// Section
	section := &model.Section{CourseID: course.ID, Term: "2026-1", GroupNumber: 1}
	if err := sectionRepo.Create(ctx, section); err != nil {
		log.Fatal().Err(err).Msg("Failed to create section")
	}

	// Student
	studentHash, err := bcrypt.GenerateFromPassword([]byte("letmein"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}
	student := &model.Student{NIS: "10001", Name: "Bob Hartono", PasswordHash: string(studentHash)}
	if err := studentRepo.Create(ctx, student); err != nil {
		log.Fatal().Err(err).Msg("Failed to create student")
	}
	if err := sectionService.Enroll(ctx, section.ID, student.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to enroll student")
	}

	// Columns: two quizzes, one midterm, one final exam.
	type colSpec struct {
		typeID int
		label  string
	}
	specs := []colSpec{
		{typeIDs[0], "Quiz 1"},
		{typeIDs[0], "Quiz 2"},
		{typeIDs[1], "Midterm"},
		{typeIDs[2], "Final Exam"},
	}
	columns := make([]*model.MarkColumn, len(specs))
	for i, cs := range specs {
		col, err := columnService.AddColumn(ctx, section.ID, cs.typeID, cs.label, staff.ID)
		if err != nil {
			log.Fatal().Err(err).Msgf("Failed to add column %q", cs.label)
		}
		columns[i] = col
	}

	// Scores: quiz best of 5.5/4.8, midterm 4.0, final 5.75.
	// Weighted: 0.3*5.5 + 0.5*4.0 + 0.2*5.75 = 4.80 — below the 6.0 threshold.
	score := func(v float64) *float64 { return &v }
	updates := []model.ScoreUpdate{
		{ColumnID: columns[0].ID, Score: score(5.5)},
		{ColumnID: columns[1].ID, Score: score(4.8)},
		{ColumnID: columns[2].ID, Score: score(4.0)},
		{ColumnID: columns[3].ID, Score: score(5.75)},
	}
	detail, err := markService.UpdateScores(ctx, section.ID, student.ID, updates, "initial entry", staff.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to enter scores")
	}

	final := "null"
	if detail.FinalScore != nil {
		final = fmt.Sprintf("%.2f", *detail.FinalScore)
	}
	fmt.Printf("\nSeed completed! Section %d, student %q: final score %s, passed=%t\n",
		section.ID, student.Name, final, detail.Passed)
}
