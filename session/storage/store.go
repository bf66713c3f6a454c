package storage

import "github.com/massimiliano76/lapi/session"

type SessionStore interface {
	Close() error
	Has(id string) bool
	Get(id string) (session.Session, error)
	Save(sess session.Session) error
	Delete(id string) error
}
