package repository

import "voice-recap/internal/app/model"

// RecapDAO persists finished pipeline runs. Persistence is a collaborator
// of the pipeline, not part of it: the core hands over ownership of the
// result and never reads it back.
type RecapDAO interface {
	Close() error

	// Save stores a recap and returns its assigned id.
	Save(recap *model.Recap) (int64, error)

	GetByID(id int64) (*model.Recap, error)

	// List returns recaps newest first.
	List(limit, offset int) ([]model.Recap, error)
}
