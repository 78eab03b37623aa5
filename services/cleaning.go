package services

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"household-backend/config"
	"household-backend/database"
	"household-backend/models"
	"household-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTaskLimit        = errors.New("task limit reached")
	ErrHandoffThreshold = errors.New("completion below handoff threshold")
	ErrUnknownAssignee  = errors.New("assignee is not a known profile")
	ErrTaskNotFound     = errors.New("task not found")
)

// CleaningService is the single owner of the cleaning checklist and its
// progress record. The stored completion percentage is a cache of
// round(100 * completed / total); every load recomputes it from the task set
// and overwrites drift.
type CleaningService struct {
	db       *gorm.DB
	notifier *NotificationService
	mutator  *Mutator
	handoff  *handoffSignal
}

var cleaningService *CleaningService

func GetCleaningService() *CleaningService {
	if cleaningService == nil {
		cleaningService = NewCleaningService(database.DB, GetNotificationService(), GetRealtime())
	}
	return cleaningService
}

func NewCleaningService(db *gorm.DB, notifier *NotificationService, rt *Realtime) *CleaningService {
	threshold := 75
	cooldown := 6 * time.Hour
	if config.AppConfig != nil {
		threshold = config.AppConfig.HandoffThreshold
		cooldown = time.Duration(config.AppConfig.HandoffCooldownMins) * time.Minute
	}

	return &CleaningService{
		db:       db,
		notifier: notifier,
		mutator:  NewMutator(db, rt),
		handoff:  newHandoffSignal(threshold, cooldown),
	}
}

// Load joins tasks with their completion states, validates the current
// assignee against the live profile list and self-heals the stored
// percentage when it drifts from the recomputed value.
func (s *CleaningService) Load() (models.CleaningOverview, error) {
	tasks, states, err := s.taskSet()
	if err != nil {
		return models.CleaningOverview{}, err
	}

	joined := make([]models.TaskWithState, 0, len(tasks))
	completed := 0
	for _, t := range tasks {
		done := states[t.ID]
		if done {
			completed++
		}
		joined = append(joined, models.TaskWithState{
			ID:          t.ID,
			Description: t.Description,
			Comment:     t.Comment,
			Completed:   done,
		})
	}

	percentage := utils.CompletionPercentage(completed, len(tasks))

	record, err := s.currentProgress()
	if err != nil {
		return models.CleaningOverview{}, err
	}

	assignee := models.UnassignedSentinel
	if record != nil {
		assignee = record.Assignee
	}

	if assignee != models.UnassignedSentinel && !s.profileExists(assignee) {
		// The referenced profile was deleted out from under us.
		assignee = models.UnassignedSentinel
		percentage = 0
	}

	if record == nil || record.Assignee != assignee || record.CompletionPercentage != percentage {
		if err := s.saveProgress(assignee, percentage); err != nil {
			return models.CleaningOverview{}, err
		}
	}

	return models.CleaningOverview{
		Tasks:        joined,
		Assignee:     assignee,
		Percentage:   percentage,
		HandoffReady: s.handoff.Observe(percentage, time.Now()),
	}, nil
}

// ToggleTask flips one task's completion state, persists the recomputed
// percentage under the current assignee and notifies them best-effort.
func (s *CleaningService) ToggleTask(taskID uuid.UUID) (models.CleaningOverview, error) {
	var task models.CleaningTask
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CleaningOverview{}, ErrTaskNotFound
		}
		return models.CleaningOverview{}, err
	}

	var state models.TaskState
	newValue := true
	if err := s.db.First(&state, "task_id = ?", taskID).Error; err == nil {
		newValue = !state.Completed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CleaningOverview{}, err
	}

	err := s.mutator.Apply(Mutation{
		Table:        "task_states",
		Event:        "UPDATE",
		ActivityType: "task_toggled",
		Description:  fmt.Sprintf("\"%s\" marked completed=%t", task.Description, newValue),
		Run: func(db *gorm.DB) (uuid.UUID, error) {
			return taskID, db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "task_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
			}).Create(&models.TaskState{
				TaskID:    taskID,
				Completed: newValue,
				UpdatedAt: time.Now(),
			}).Error
		},
	})
	if err != nil {
		return models.CleaningOverview{}, err
	}

	overview, err := s.reconcile()
	if err != nil {
		return models.CleaningOverview{}, err
	}

	if overview.Assignee != models.UnassignedSentinel {
		if profile, perr := s.profileByName(overview.Assignee); perr == nil {
			go s.notifier.NotifyTaskToggled(profile, task.Description, newValue, overview.Percentage)
		}
	}

	return overview, nil
}

// ChangeAssignee hands the checklist to a new owner. It is rejected with no
// write unless completion has reached the handoff threshold; on success the
// percentage resets to zero and every task state is cleared.
func (s *CleaningService) ChangeAssignee(newAssignee string) error {
	tasks, states, err := s.taskSet()
	if err != nil {
		return err
	}

	completed := 0
	for _, t := range tasks {
		if states[t.ID] {
			completed++
		}
	}

	if utils.CompletionPercentage(completed, len(tasks)) < s.handoff.threshold {
		return ErrHandoffThreshold
	}

	if newAssignee != models.UnassignedSentinel && !s.profileExists(newAssignee) {
		return ErrUnknownAssignee
	}

	err = s.mutator.Apply(Mutation{
		Table:        "progress_records",
		Event:        "INSERT",
		ActivityType: "assignee_changed",
		Description:  fmt.Sprintf("Cleaning handed off to %s", newAssignee),
		Run: func(db *gorm.DB) (uuid.UUID, error) {
			if err := db.Model(&models.TaskState{}).
				Where("completed = ?", true).
				Updates(map[string]interface{}{"completed": false, "updated_at": time.Now()}).Error; err != nil {
				return uuid.Nil, err
			}
			record := models.ProgressRecord{
				Assignee:             newAssignee,
				CompletionPercentage: 0,
				LastUpdated:          time.Now(),
			}
			if err := db.Create(&record).Error; err != nil {
				return uuid.Nil, err
			}
			return record.ID, nil
		},
	})
	if err != nil {
		return err
	}

	if newAssignee != models.UnassignedSentinel {
		if profile, perr := s.profileByName(newAssignee); perr == nil {
			go s.notifier.NotifyHandoff(profile)
		}
	}

	return nil
}

// AddTask creates a task plus its incomplete state row. Rejected once the
// configured ceiling is reached. The percentage is only recomputed when a
// real assignee is set, so adding tasks while unassigned never shows
// phantom progress.
func (s *CleaningService) AddTask(description, comment string) (models.TaskWithState, error) {
	var count int64
	if err := s.db.Model(&models.CleaningTask{}).Count(&count).Error; err != nil {
		return models.TaskWithState{}, err
	}
	if count >= int64(s.maxTasks()) {
		return models.TaskWithState{}, ErrTaskLimit
	}

	task := models.CleaningTask{Description: description, Comment: comment}

	err := s.mutator.Apply(Mutation{
		Table:        "cleaning_tasks",
		Event:        "INSERT",
		ActivityType: "task_added",
		Description:  fmt.Sprintf("Added task \"%s\"", description),
		Run: func(db *gorm.DB) (uuid.UUID, error) {
			if err := db.Create(&task).Error; err != nil {
				return uuid.Nil, err
			}
			if err := db.Create(&models.TaskState{TaskID: task.ID, Completed: false, UpdatedAt: time.Now()}).Error; err != nil {
				return uuid.Nil, err
			}
			return task.ID, nil
		},
	})
	if err != nil {
		return models.TaskWithState{}, err
	}

	if assignee, aerr := s.currentAssignee(); aerr == nil && assignee != models.UnassignedSentinel {
		if _, rerr := s.reconcile(); rerr != nil {
			return models.TaskWithState{}, rerr
		}
	}

	return models.TaskWithState{
		ID:          task.ID,
		Description: task.Description,
		Comment:     task.Comment,
		Completed:   false,
	}, nil
}

func (s *CleaningService) UpdateTask(taskID uuid.UUID, description, comment string) error {
	var task models.CleaningTask
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	updates := map[string]interface{}{"comment": comment}
	if description != "" {
		updates["description"] = description
	}

	return s.mutator.Apply(Mutation{
		Table:        "cleaning_tasks",
		Event:        "UPDATE",
		ActivityType: "task_updated",
		Description:  fmt.Sprintf("Updated task \"%s\"", task.Description),
		Run: func(db *gorm.DB) (uuid.UUID, error) {
			return taskID, db.Model(&task).Updates(updates).Error
		},
	})
}

// DeleteTask removes the state row before the task row so a reload never
// resurrects an orphaned state.
func (s *CleaningService) DeleteTask(taskID uuid.UUID) error {
	var task models.CleaningTask
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	err := s.mutator.Apply(Mutation{
		Table:        "cleaning_tasks",
		Event:        "DELETE",
		ActivityType: "task_deleted",
		Description:  fmt.Sprintf("Deleted task \"%s\"", task.Description),
		Run: func(db *gorm.DB) (uuid.UUID, error) {
			if err := db.Where("task_id = ?", taskID).Delete(&models.TaskState{}).Error; err != nil {
				return uuid.Nil, err
			}
			return taskID, db.Delete(&task).Error
		},
	})
	if err != nil {
		return err
	}

	if assignee, aerr := s.currentAssignee(); aerr == nil && assignee != models.UnassignedSentinel {
		if _, rerr := s.reconcile(); rerr != nil {
			return rerr
		}
	}

	return nil
}

// ============================================================
// internals
// ============================================================

func (s *CleaningService) taskSet() ([]models.CleaningTask, map[uuid.UUID]bool, error) {
	var tasks []models.CleaningTask
	if err := s.db.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, nil, err
	}

	var states []models.TaskState
	if err := s.db.Find(&states).Error; err != nil {
		return nil, nil, err
	}

	stateByTask := make(map[uuid.UUID]bool, len(states))
	for _, st := range states {
		stateByTask[st.TaskID] = st.Completed
	}

	return tasks, stateByTask, nil
}

// reconcile recomputes the percentage from the full task set and persists it
// under the current assignee.
func (s *CleaningService) reconcile() (models.CleaningOverview, error) {
	tasks, states, err := s.taskSet()
	if err != nil {
		return models.CleaningOverview{}, err
	}

	joined := make([]models.TaskWithState, 0, len(tasks))
	completed := 0
	for _, t := range tasks {
		done := states[t.ID]
		if done {
			completed++
		}
		joined = append(joined, models.TaskWithState{
			ID:          t.ID,
			Description: t.Description,
			Comment:     t.Comment,
			Completed:   done,
		})
	}

	percentage := utils.CompletionPercentage(completed, len(tasks))

	assignee, err := s.currentAssignee()
	if err != nil {
		return models.CleaningOverview{}, err
	}

	if err := s.saveProgress(assignee, percentage); err != nil {
		return models.CleaningOverview{}, err
	}

	return models.CleaningOverview{
		Tasks:        joined,
		Assignee:     assignee,
		Percentage:   percentage,
		HandoffReady: s.handoff.Observe(percentage, time.Now()),
	}, nil
}

func (s *CleaningService) currentProgress() (*models.ProgressRecord, error) {
	var record models.ProgressRecord
	err := s.db.Order("last_updated DESC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *CleaningService) currentAssignee() (string, error) {
	record, err := s.currentProgress()
	if err != nil {
		return "", err
	}
	if record == nil {
		return models.UnassignedSentinel, nil
	}
	return record.Assignee, nil
}

func (s *CleaningService) saveProgress(assignee string, percentage int) error {
	record, err := s.currentProgress()
	if err != nil {
		return err
	}

	if record == nil {
		rec := models.ProgressRecord{
			Assignee:             assignee,
			CompletionPercentage: percentage,
			LastUpdated:          time.Now(),
		}
		if err := s.db.Create(&rec).Error; err != nil {
			return err
		}
		s.mutator.rt.Publish("progress_records", "INSERT", rec.ID)
		return nil
	}

	err = s.db.Model(record).Updates(map[string]interface{}{
		"assignee":              assignee,
		"completion_percentage": percentage,
		"last_updated":          time.Now(),
	}).Error
	if err != nil {
		return err
	}
	s.mutator.rt.Publish("progress_records", "UPDATE", record.ID)
	return nil
}

func (s *CleaningService) profileExists(name string) bool {
	var count int64
	s.db.Model(&models.Profile{}).Where("name = ?", name).Count(&count)
	return count > 0
}

func (s *CleaningService) profileByName(name string) (models.Profile, error) {
	var profile models.Profile
	err := s.db.First(&profile, "name = ?", name).Error
	return profile, err
}

func (s *CleaningService) maxTasks() int {
	var setting models.HouseholdSetting
	if err := s.db.First(&setting, "key = ?", models.SettingMaxTasks).Error; err == nil {
		if n, perr := strconv.Atoi(setting.Value); perr == nil && n > 0 {
			return n
		}
	}
	if config.AppConfig != nil {
		return config.AppConfig.DefaultMaxTasks
	}
	return 10
}

// ============================================================
// handoff signal
// ============================================================

// handoffSignal fires once when the percentage reaches the threshold from
// below. It re-arms when the percentage drops back under the threshold and
// will not fire again inside the cooldown window.
type handoffSignal struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	armed     bool
	lastFired time.Time
}

func newHandoffSignal(threshold int, cooldown time.Duration) *handoffSignal {
	return &handoffSignal{threshold: threshold, cooldown: cooldown, armed: true}
}

func (h *handoffSignal) Observe(percentage int, now time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if percentage < h.threshold {
		h.armed = true
		return false
	}

	if !h.armed {
		return false
	}
	if !h.lastFired.IsZero() && now.Sub(h.lastFired) < h.cooldown {
		return false
	}

	h.armed = false
	h.lastFired = now
	return true
}
