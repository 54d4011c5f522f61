package memory

import (
	"time"

	"demarches-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type WizardRepository struct {
	cache *cache.Cache
}

func NewWizardRepository() *WizardRepository {
	// Abandoned wizard runs expire after an hour; expired items are purged
	// every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &WizardRepository{
		cache: c,
	}
}

func (r *WizardRepository) Save(session *store.WizardSession) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *WizardRepository) Get(sessionID string) (*store.WizardSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.WizardSession), true
	}
	return nil, false
}

func (r *WizardRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
