package services

import (
	"log"

	"household-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mutation describes a single table write: the operation itself plus the
// bookkeeping (activity entry, change-feed event) every mutation carries.
// Run returns the ID of the affected row so that INSERTs, whose IDs are
// assigned inside the write, still produce activity rows and change events
// that reference the created row.
type Mutation struct {
	Table        string
	Event        string // INSERT, UPDATE, DELETE
	ActivityType string // empty skips the activity entry
	Description  string
	Run          func(db *gorm.DB) (uuid.UUID, error)
}

// Mutator wraps writes so success paths uniformly record activity and notify
// change-feed subscribers. The write's error is the caller's; activity and
// publication failures are logged and never surfaced.
type Mutator struct {
	db *gorm.DB
	rt *Realtime
}

func NewMutator(db *gorm.DB, rt *Realtime) *Mutator {
	return &Mutator{db: db, rt: rt}
}

func (m *Mutator) Apply(mut Mutation) error {
	ref, err := mut.Run(m.db)
	if err != nil {
		return err
	}

	if mut.ActivityType != "" {
		activity := models.Activity{
			Type:        mut.ActivityType,
			ReferenceID: ref,
			Description: mut.Description,
		}
		if err := m.db.Create(&activity).Error; err != nil {
			log.Printf("⚠️  Failed to record activity %s: %v", mut.ActivityType, err)
		}
	}

	if m.rt != nil {
		m.rt.Publish(mut.Table, mut.Event, ref)
	}

	return nil
}
