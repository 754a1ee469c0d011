package services

import (
	"testing"
	"time"

	"finledger/internal/clock"
	"finledger/internal/models"
	"finledger/internal/testutil"
)

func TestCreateGoal(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		goal, err := svc.CreateGoal(user.ID, "Emergency fund", 1000, 0, nil)
		testutil.AssertNoError(t, err)

		if goal.Status != models.GoalStatusActive {
			t.Errorf("expected status active, got %s", goal.Status)
		}
	})

	t.Run("already_funded_starts_completed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		goal, err := svc.CreateGoal(user.ID, "Done already", 500, 500, nil)
		testutil.AssertNoError(t, err)

		if goal.Status != models.GoalStatusCompleted {
			t.Errorf("expected status completed, got %s", goal.Status)
		}
	})

	t.Run("missing_title", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(user.ID, "", 1000, 0, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(user.ID, "Broken", 0, 0, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_current", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(user.ID, "Broken", 1000, -1, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGoalProgress(t *testing.T) {
	today := testutil.Date(2024, time.March, 1)
	clk := clock.Fixed{Time: today}

	t.Run("with_target_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clk)
		user := testutil.CreateTestUser(t, db)
		targetDate := today.AddDate(0, 0, 25)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 250, &targetDate)

		progress, err := svc.Progress(user.ID, goal.ID)
		testutil.AssertNoError(t, err)

		if progress.ProgressPercentage != 25 {
			t.Errorf("expected 25%% progress, got %v", progress.ProgressPercentage)
		}
		if progress.RemainingAmount != 750 {
			t.Errorf("expected remaining 750, got %v", progress.RemainingAmount)
		}
		if progress.DaysRemaining == nil || *progress.DaysRemaining != 25 {
			t.Errorf("expected 25 days remaining, got %v", progress.DaysRemaining)
		}
		if progress.DailySavingsNeeded == nil || *progress.DailySavingsNeeded != 30 {
			t.Errorf("expected daily savings 30, got %v", progress.DailySavingsNeeded)
		}
		if progress.IsCompleted {
			t.Error("goal should not be completed")
		}
	})

	t.Run("without_target_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clk)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 100, nil)

		progress, err := svc.Progress(user.ID, goal.ID)
		testutil.AssertNoError(t, err)

		if progress.DaysRemaining != nil {
			t.Errorf("expected no days remaining, got %v", *progress.DaysRemaining)
		}
		if progress.DailySavingsNeeded != nil {
			t.Errorf("expected no daily pace, got %v", *progress.DailySavingsNeeded)
		}
	})

	t.Run("past_target_date_reports_negative_days_no_pace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clk)
		user := testutil.CreateTestUser(t, db)
		targetDate := today.AddDate(0, 0, -10)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 100, &targetDate)

		progress, err := svc.Progress(user.ID, goal.ID)
		testutil.AssertNoError(t, err)

		if progress.DaysRemaining == nil || *progress.DaysRemaining != -10 {
			t.Errorf("expected -10 days remaining, got %v", progress.DaysRemaining)
		}
		if progress.DailySavingsNeeded != nil {
			t.Error("no pace should be suggested past the target date")
		}
	})

	t.Run("funded_goal_reports_no_pace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clk)
		user := testutil.CreateTestUser(t, db)
		targetDate := today.AddDate(0, 0, 30)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 1000, &targetDate)

		progress, err := svc.Progress(user.ID, goal.ID)
		testutil.AssertNoError(t, err)

		if !progress.IsCompleted {
			t.Error("expected goal completed")
		}
		if progress.DailySavingsNeeded != nil {
			t.Error("a funded goal needs no savings pace")
		}
	})

	t.Run("percentage_rounded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clk)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 300, 100, nil)

		progress, err := svc.Progress(user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if progress.ProgressPercentage != 33.33 {
			t.Errorf("expected 33.33%%, got %v", progress.ProgressPercentage)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clk)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Progress(user.ID, 9999)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestApplyContribution(t *testing.T) {
	t.Run("accumulates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clock.System())
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 100, nil)

		updated, err := svc.ApplyContribution(user.ID, goal.ID, 50)
		testutil.AssertNoError(t, err)
		if updated.CurrentAmount != 150 {
			t.Errorf("expected current 150, got %v", updated.CurrentAmount)
		}
		if updated.Status != models.GoalStatusActive {
			t.Errorf("expected status active, got %s", updated.Status)
		}
	})

	t.Run("reaching_target_completes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clock.System())
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 900, nil)

		updated, err := svc.ApplyContribution(user.ID, goal.ID, 100)
		testutil.AssertNoError(t, err)
		if updated.Status != models.GoalStatusCompleted {
			t.Errorf("expected status completed, got %s", updated.Status)
		}

		// Status must persist, not just be set on the returned value.
		got, err := svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if got.Status != models.GoalStatusCompleted {
			t.Errorf("expected persisted status completed, got %s", got.Status)
		}
	})

	t.Run("completes_even_from_paused", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clock.System())
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 990, nil)

		if err := db.Model(goal).Update("status", models.GoalStatusPaused).Error; err != nil {
			t.Fatalf("failed to pause goal: %v", err)
		}

		updated, err := svc.ApplyContribution(user.ID, goal.ID, 10)
		testutil.AssertNoError(t, err)
		if updated.Status != models.GoalStatusCompleted {
			t.Errorf("expected status completed, got %s", updated.Status)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ApplyContribution(user.ID, 9999, 10)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}
