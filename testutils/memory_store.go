package testutils

import (
	"context"
	"sort"
	"sync"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/repositories"
)

type memData struct {
	users       []models.User
	invitations []models.Invitation
	guests      []models.Guest
	templates   []models.Template
}

func (d *memData) clone() *memData {
	return &memData{
		users:       append([]models.User(nil), d.users...),
		invitations: append([]models.Invitation(nil), d.invitations...),
		guests:      append([]models.Guest(nil), d.guests...),
		templates:   append([]models.Template(nil), d.templates...),
	}
}

type memState struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	data     *memData
	failures map[string]error
}

// MemoryStore is an in-memory repositories.Store. Transactions snapshot the
// whole data set and restore it when the callback fails. Operations can be
// made to fail with FailOn, keyed "<repo>.<method>", e.g. "guests.create".
type MemoryStore struct {
	state *memState
	inTx  bool
}

var _ repositories.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memState{
		data:     &memData{},
		failures: map[string]error{},
	}}
}

// FailOn makes every subsequent call of op return err. A nil err clears it.
func (s *MemoryStore) FailOn(op string, err error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if err == nil {
		delete(s.state.failures, op)
		return
	}
	s.state.failures[op] = err
}

// AllGuests returns a copy of every stored guest, in insertion order.
func (s *MemoryStore) AllGuests() []models.Guest {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return append([]models.Guest(nil), s.state.data.guests...)
}

func (s *MemoryStore) Users() repositories.UserRepository             { return &memUsers{s.state, s.inTx} }
func (s *MemoryStore) Invitations() repositories.InvitationRepository { return &memInvitations{s.state, s.inTx} }
func (s *MemoryStore) Guests() repositories.GuestRepository           { return &memGuests{s.state, s.inTx} }
func (s *MemoryStore) Templates() repositories.TemplateRepository     { return &memTemplates{s.state, s.inTx} }

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.state.txMu.Lock()
	defer s.state.txMu.Unlock()

	s.state.mu.Lock()
	snapshot := s.state.data.clone()
	s.state.mu.Unlock()

	if err := fn(&MemoryStore{state: s.state, inTx: true}); err != nil {
		s.state.mu.Lock()
		s.state.data = snapshot
		s.state.mu.Unlock()
		return err
	}
	return nil
}

// write locks st for a mutation. Outside a transaction it also holds txMu, so
// the write waits for a running transaction instead of being undone by its
// rollback.
func (st *memState) write(op string, inTx bool) (func(), error) {
	if !inTx {
		st.txMu.Lock()
	}
	if err := st.lock(op); err != nil {
		if !inTx {
			st.txMu.Unlock()
		}
		return nil, err
	}
	return func() {
		st.mu.Unlock()
		if !inTx {
			st.txMu.Unlock()
		}
	}, nil
}

// lock acquires the state mutex and reports any injected failure for op.
func (st *memState) lock(op string) error {
	st.mu.Lock()
	if err, ok := st.failures[op]; ok {
		st.mu.Unlock()
		return err
	}
	return nil
}

// ----------------------------------------------------------------------------
// users
// ----------------------------------------------------------------------------

type memUsers struct {
	st *memState
	tx bool
}

func (r *memUsers) Create(_ context.Context, u *models.User) error {
	unlock, err := r.st.write("users.create", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	for _, existing := range r.st.data.users {
		if existing.Email == u.Email {
			return repositories.ErrUniqueViolation
		}
	}
	r.st.data.users = append(r.st.data.users, *u)
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if err := r.st.lock("users.get"); err != nil {
		return nil, err
	}
	defer r.st.mu.Unlock()
	for _, u := range r.st.data.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if err := r.st.lock("users.get"); err != nil {
		return nil, err
	}
	defer r.st.mu.Unlock()
	for _, u := range r.st.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUsers) Update(_ context.Context, u *models.User) error {
	unlock, err := r.st.write("users.update", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	for i := range r.st.data.users {
		if r.st.data.users[i].ID == u.ID {
			r.st.data.users[i] = *u
			return nil
		}
	}
	return repositories.ErrNotFound
}

// Delete cascades to the user's invitations, their guests and the user's templates.
func (r *memUsers) Delete(_ context.Context, id string) error {
	unlock, err := r.st.write("users.delete", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	d := r.st.data
	idx := -1
	for i, u := range d.users {
		if u.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return repositories.ErrNotFound
	}
	d.users = append(d.users[:idx], d.users[idx+1:]...)

	owned := map[string]bool{}
	d.invitations = filter(d.invitations, func(inv models.Invitation) bool {
		if inv.UserID == id {
			owned[inv.ID] = true
			return false
		}
		return true
	})
	d.guests = filter(d.guests, func(g models.Guest) bool { return !owned[g.InvitationID] })
	d.templates = filter(d.templates, func(t models.Template) bool { return t.UserID != id })
	return nil
}

// ----------------------------------------------------------------------------
// invitations
// ----------------------------------------------------------------------------

type memInvitations struct {
	st *memState
	tx bool
}

func (r *memInvitations) Create(_ context.Context, inv *models.Invitation) error {
	unlock, err := r.st.write("invitations.create", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	for _, existing := range r.st.data.invitations {
		if existing.UniqueCode == inv.UniqueCode {
			return repositories.ErrUniqueViolation
		}
	}
	stored := *inv
	stored.Template = nil
	stored.RSVPStats = models.RSVPStats{}
	r.st.data.invitations = append(r.st.data.invitations, stored)
	return nil
}

func (r *memInvitations) GetByID(_ context.Context, id string) (*models.Invitation, error) {
	return r.find("invitations.get", func(inv models.Invitation) bool { return inv.ID == id })
}

func (r *memInvitations) GetByCode(_ context.Context, code string) (*models.Invitation, error) {
	return r.find("invitations.get", func(inv models.Invitation) bool { return inv.UniqueCode == code })
}

func (r *memInvitations) find(op string, match func(models.Invitation) bool) (*models.Invitation, error) {
	if err := r.st.lock(op); err != nil {
		return nil, err
	}
	defer r.st.mu.Unlock()
	for _, inv := range r.st.data.invitations {
		if match(inv) {
			return &inv, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memInvitations) ListByOwner(_ context.Context, ownerID string, page repositories.Page) ([]models.Invitation, error) {
	if err := r.st.lock("invitations.list"); err != nil {
		return nil, err
	}
	defer r.st.mu.Unlock()

	out := filter(append([]models.Invitation(nil), r.st.data.invitations...),
		func(inv models.Invitation) bool { return inv.UserID == ownerID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if page.Offset > 0 {
		if page.Offset >= len(out) {
			return []models.Invitation{}, nil
		}
		out = out[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(out) {
		out = out[:page.Limit]
	}
	return out, nil
}

func (r *memInvitations) CountByOwner(_ context.Context, ownerID string) (int, error) {
	if err := r.st.lock("invitations.count"); err != nil {
		return 0, err
	}
	defer r.st.mu.Unlock()
	n := 0
	for _, inv := range r.st.data.invitations {
		if inv.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *memInvitations) CountByTemplate(_ context.Context, templateID string) (int, error) {
	if err := r.st.lock("invitations.count"); err != nil {
		return 0, err
	}
	defer r.st.mu.Unlock()
	n := 0
	for _, inv := range r.st.data.invitations {
		if inv.TemplateID != nil && *inv.TemplateID == templateID {
			n++
		}
	}
	return n, nil
}

// Update never rewrites the owner or the sharing code.
func (r *memInvitations) Update(_ context.Context, inv *models.Invitation) error {
	unlock, err := r.st.write("invitations.update", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	for i := range r.st.data.invitations {
		cur := &r.st.data.invitations[i]
		if cur.ID == inv.ID {
			stored := *inv
			stored.UserID = cur.UserID
			stored.UniqueCode = cur.UniqueCode
			stored.ShareURL = cur.ShareURL
			stored.CreatedAt = cur.CreatedAt
			stored.Template = nil
			stored.RSVPStats = models.RSVPStats{}
			*cur = stored
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *memInvitations) Delete(_ context.Context, id string) error {
	unlock, err := r.st.write("invitations.delete", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	d := r.st.data
	before := len(d.invitations)
	d.invitations = filter(d.invitations, func(inv models.Invitation) bool { return inv.ID != id })
	if len(d.invitations) == before {
		return repositories.ErrNotFound
	}
	d.guests = filter(d.guests, func(g models.Guest) bool { return g.InvitationID != id })
	return nil
}

// ----------------------------------------------------------------------------
// guests
// ----------------------------------------------------------------------------

type memGuests struct {
	st *memState
	tx bool
}

func (r *memGuests) Create(_ context.Context, g *models.Guest) error {
	unlock, err := r.st.write("guests.create", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	if g.Email != nil {
		for _, existing := range r.st.data.guests {
			if existing.InvitationID == g.InvitationID && existing.Email != nil && *existing.Email == *g.Email {
				return repositories.ErrUniqueViolation
			}
		}
	}
	r.st.data.guests = append(r.st.data.guests, *g)
	return nil
}

func (r *memGuests) Update(_ context.Context, g *models.Guest) error {
	unlock, err := r.st.write("guests.update", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	for i := range r.st.data.guests {
		cur := &r.st.data.guests[i]
		if cur.ID == g.ID {
			cur.Name = g.Name
			cur.RSVPStatus = g.RSVPStatus
			cur.RSVPDate = g.RSVPDate
			cur.NumberOfGuests = g.NumberOfGuests
			cur.DietaryRestrictions = g.DietaryRestrictions
			cur.Notes = g.Notes
			cur.UpdatedAt = g.UpdatedAt
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *memGuests) FindByEmail(_ context.Context, invitationID, email string) (*models.Guest, error) {
	return r.find(func(g models.Guest) bool {
		return g.InvitationID == invitationID && g.Email != nil && *g.Email == email
	})
}

func (r *memGuests) FindByPhone(_ context.Context, invitationID, phone string) (*models.Guest, error) {
	return r.find(func(g models.Guest) bool {
		return g.InvitationID == invitationID && g.Phone != nil && *g.Phone == phone
	})
}

func (r *memGuests) find(match func(models.Guest) bool) (*models.Guest, error) {
	if err := r.st.lock("guests.find"); err != nil {
		return nil, err
	}
	defer r.st.mu.Unlock()
	for _, g := range r.st.data.guests {
		if match(g) {
			return &g, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memGuests) ListByInvitation(_ context.Context, invitationID string) ([]models.Guest, error) {
	if err := r.st.lock("guests.list"); err != nil {
		return nil, err
	}
	defer r.st.mu.Unlock()
	out := []models.Guest{}
	for _, g := range r.st.data.guests {
		if g.InvitationID == invitationID {
			out = append(out, g)
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// templates
// ----------------------------------------------------------------------------

type memTemplates struct {
	st *memState
	tx bool
}

func (r *memTemplates) Create(_ context.Context, t *models.Template) error {
	unlock, err := r.st.write("templates.create", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	r.st.data.templates = append(r.st.data.templates, *t)
	return nil
}

func (r *memTemplates) GetByID(_ context.Context, id string) (*models.Template, error) {
	if err := r.st.lock("templates.get"); err != nil {
		return nil, err
	}
	defer r.st.mu.Unlock()
	for _, t := range r.st.data.templates {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memTemplates) ListByOwner(_ context.Context, ownerID string) ([]models.Template, error) {
	if err := r.st.lock("templates.list"); err != nil {
		return nil, err
	}
	defer r.st.mu.Unlock()
	out := []models.Template{}
	for _, t := range r.st.data.templates {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTemplates) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	list, err := r.ListByOwner(ctx, ownerID)
	return len(list), err
}

func (r *memTemplates) Update(_ context.Context, t *models.Template) error {
	unlock, err := r.st.write("templates.update", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	for i := range r.st.data.templates {
		if r.st.data.templates[i].ID == t.ID {
			stored := *t
			stored.UserID = r.st.data.templates[i].UserID
			r.st.data.templates[i] = stored
			return nil
		}
	}
	return repositories.ErrNotFound
}

// Delete detaches the template from any invitation still pointing at it.
func (r *memTemplates) Delete(_ context.Context, id string) error {
	unlock, err := r.st.write("templates.delete", r.tx)
	if err != nil {
		return err
	}
	defer unlock()
	d := r.st.data
	before := len(d.templates)
	d.templates = filter(d.templates, func(t models.Template) bool { return t.ID != id })
	if len(d.templates) == before {
		return repositories.ErrNotFound
	}
	for i := range d.invitations {
		if d.invitations[i].TemplateID != nil && *d.invitations[i].TemplateID == id {
			d.invitations[i].TemplateID = nil
		}
	}
	return nil
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
