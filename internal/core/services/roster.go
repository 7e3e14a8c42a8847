package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sudheer2004/PollProject/internal/core/domain"
)

// roster tracks connected students by display name. It is not safe for
// concurrent use; the engine serializes access.
type roster struct {
	byName []*domain.Participant
	byConn map[uuid.UUID]*domain.Participant
}

func newRoster() *roster {
	return &roster{byConn: make(map[uuid.UUID]*domain.Participant)}
}

// join registers a student. A second join with the same name replaces the
// old connection and returns it so the transport can drop it.
func (r *roster) join(name string, conn uuid.UUID) (replaced uuid.UUID, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, domain.ErrInvalidName
	}

	for _, p := range r.byName {
		if p.Name == name {
			replaced = p.Conn
			delete(r.byConn, p.Conn)
			p.Conn = conn
			p.JoinedAt = time.Now()
			r.byConn[conn] = p
			return replaced, nil
		}
	}

	p := &domain.Participant{Name: name, Conn: conn, JoinedAt: time.Now()}
	r.byName = append(r.byName, p)
	r.byConn[conn] = p
	return uuid.Nil, nil
}

// leave removes the student bound to conn, if any.
func (r *roster) leave(conn uuid.UUID) (string, bool) {
	p, ok := r.byConn[conn]
	if !ok {
		return "", false
	}
	delete(r.byConn, conn)
	for i, q := range r.byName {
		if q == p {
			r.byName = append(r.byName[:i], r.byName[i+1:]...)
			break
		}
	}
	return p.Name, true
}

func (r *roster) size() int {
	return len(r.byName)
}

// names returns display names in join order.
func (r *roster) names() []string {
	out := make([]string, 0, len(r.byName))
	for _, p := range r.byName {
		out = append(out, p.Name)
	}
	return out
}
