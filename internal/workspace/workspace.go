package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/vc-scout/internal/entity"
)

// Storage keys. Per-company keys append the company id.
const (
	NotePrefix         = "vc_note_"
	EnrichPrefix       = "vc_enrich_"
	ListsKey           = "vc_lists"
	SavedSearchesKey   = "vc_saved_searches"
	CustomCompaniesKey = "vc_custom_companies"

	// MaxSavedSearches caps the saved search history; older entries are dropped.
	MaxSavedSearches = 25
)

var (
	// ErrListNotFound indicates no list has the requested id.
	ErrListNotFound = errors.New("list not found")
	// ErrEmptyName is returned when creating a list or saved search without a name.
	ErrEmptyName = errors.New("name is required")
)

// List is a named, ordered collection of company ids. Newest additions come first.
type List struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	CompanyIDs []string `json:"companyIds"`
}

// SavedSearch remembers a directory query.
type SavedSearch struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	QueryString string `json:"queryString"`
}

// Workspace reads and writes typed values on top of a Store. Corrupt or missing values read
// as their empty default.
type Workspace struct {
	store Store
	now   func() time.Time
	newID func() string
}

// Option customizes a Workspace.
type Option func(*Workspace)

// WithClock overrides the time source used for cache timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// WithIDGenerator overrides uuid generation for new lists and searches.
func WithIDGenerator(fn func() string) Option {
	return func(w *Workspace) { w.newID = fn }
}

// New wraps store.
func New(store Store, opts ...Option) *Workspace {
	w := &Workspace{store: store, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Note returns the note for companyID, or "" when none was written.
func (w *Workspace) Note(ctx context.Context, companyID string) (string, error) {
	raw, err := w.store.Get(ctx, NotePrefix+companyID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetNote replaces the note for companyID. A blank note removes the key.
func (w *Workspace) SetNote(ctx context.Context, companyID, note string) error {
	if strings.TrimSpace(note) == "" {
		return w.ClearNote(ctx, companyID)
	}
	return w.store.Set(ctx, NotePrefix+companyID, []byte(note))
}

// ClearNote removes the note for companyID.
func (w *Workspace) ClearNote(ctx context.Context, companyID string) error {
	return w.store.Delete(ctx, NotePrefix+companyID)
}

// Lists returns every list, newest first.
func (w *Workspace) Lists(ctx context.Context) ([]List, error) {
	lists, err := readJSON(ctx, w.store, ListsKey, []List{})
	if err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []List{}
	}
	for i := range lists {
		if lists[i].CompanyIDs == nil {
			lists[i].CompanyIDs = []string{}
		}
	}
	return lists, nil
}

// List returns a single list by id.
func (w *Workspace) List(ctx context.Context, listID string) (*List, error) {
	lists, err := w.Lists(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		if l.ID == listID {
			return &l, nil
		}
	}
	return nil, ErrListNotFound
}

// CreateList adds an empty list ahead of the existing ones.
func (w *Workspace) CreateList(ctx context.Context, name string) (List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return List{}, ErrEmptyName
	}
	lists, err := w.Lists(ctx)
	if err != nil {
		return List{}, err
	}
	list := List{ID: w.newID(), Name: name, CompanyIDs: []string{}}
	return list, w.setJSON(ctx, ListsKey, append([]List{list}, lists...))
}

// DeleteList removes a list. Unknown ids are ignored.
func (w *Workspace) DeleteList(ctx context.Context, listID string) error {
	lists, err := w.Lists(ctx)
	if err != nil {
		return err
	}
	next := lists[:0]
	for _, l := range lists {
		if l.ID != listID {
			next = append(next, l)
		}
	}
	return w.setJSON(ctx, ListsKey, next)
}

// AddToList prepends companyID to the list unless it is already present.
func (w *Workspace) AddToList(ctx context.Context, listID, companyID string) error {
	return w.updateList(ctx, listID, func(l *List) {
		for _, id := range l.CompanyIDs {
			if id == companyID {
				return
			}
		}
		l.CompanyIDs = append([]string{companyID}, l.CompanyIDs...)
	})
}

// RemoveFromList drops companyID from the list.
func (w *Workspace) RemoveFromList(ctx context.Context, listID, companyID string) error {
	return w.updateList(ctx, listID, func(l *List) {
		kept := make([]string, 0, len(l.CompanyIDs))
		for _, id := range l.CompanyIDs {
			if id != companyID {
				kept = append(kept, id)
			}
		}
		l.CompanyIDs = kept
	})
}

func (w *Workspace) updateList(ctx context.Context, listID string, fn func(*List)) error {
	lists, err := w.Lists(ctx)
	if err != nil {
		return err
	}
	for i := range lists {
		if lists[i].ID == listID {
			fn(&lists[i])
			return w.setJSON(ctx, ListsKey, lists)
		}
	}
	return ErrListNotFound
}

// SavedSearches returns saved searches, newest first.
func (w *Workspace) SavedSearches(ctx context.Context) ([]SavedSearch, error) {
	searches, err := readJSON(ctx, w.store, SavedSearchesKey, []SavedSearch{})
	if err != nil {
		return nil, err
	}
	if searches == nil {
		searches = []SavedSearch{}
	}
	return searches, nil
}

// SaveSearch records a query at the head of the history, keeping at most MaxSavedSearches.
func (w *Workspace) SaveSearch(ctx context.Context, name, queryString string) (SavedSearch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedSearch{}, ErrEmptyName
	}
	searches, err := w.SavedSearches(ctx)
	if err != nil {
		return SavedSearch{}, err
	}
	item := SavedSearch{ID: w.newID(), Name: name, QueryString: queryString}
	next := append([]SavedSearch{item}, searches...)
	if len(next) > MaxSavedSearches {
		next = next[:MaxSavedSearches]
	}
	return item, w.setJSON(ctx, SavedSearchesKey, next)
}

// EnrichCache returns the cached enrichment for companyID, or nil when there is none.
func (w *Workspace) EnrichCache(ctx context.Context, companyID string) (*entity.EnrichmentCache, error) {
	return readJSON[*entity.EnrichmentCache](ctx, w.store, EnrichPrefix+companyID, nil)
}

// SetEnrichCache stores result stamped with the current time.
func (w *Workspace) SetEnrichCache(ctx context.Context, companyID string, result entity.EnrichmentResult) (entity.EnrichmentCache, error) {
	cache := entity.EnrichmentCache{
		Result:   result,
		CachedAt: w.now().UTC().Format(entity.ScrapedAtLayout),
	}
	return cache, w.setJSON(ctx, EnrichPrefix+companyID, cache)
}

// ClearEnrichCache drops the cached enrichment for companyID.
func (w *Workspace) ClearEnrichCache(ctx context.Context, companyID string) error {
	return w.store.Delete(ctx, EnrichPrefix+companyID)
}

// CustomCompanies returns user-added companies. Entries without a string id, name and
// website are dropped.
func (w *Workspace) CustomCompanies(ctx context.Context) ([]entity.Company, error) {
	raw, err := readJSON[[]json.RawMessage](ctx, w.store, CustomCompaniesKey, nil)
	if err != nil {
		return nil, err
	}

	companies := make([]entity.Company, 0, len(raw))
	for _, item := range raw {
		var required struct {
			ID      *string `json:"id"`
			Name    *string `json:"name"`
			Website *string `json:"website"`
		}
		if err := json.Unmarshal(item, &required); err != nil {
			continue
		}
		if required.ID == nil || required.Name == nil || required.Website == nil {
			continue
		}
		var c entity.Company
		if err := json.Unmarshal(item, &c); err != nil {
			continue
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// AddCustomCompanies prepends companies to the custom directory, replacing entries with the same id.
func (w *Workspace) AddCustomCompanies(ctx context.Context, companies ...entity.Company) error {
	existing, err := w.CustomCompanies(ctx)
	if err != nil {
		return err
	}
	added := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		added[c.ID] = struct{}{}
	}
	next := append([]entity.Company{}, companies...)
	for _, c := range existing {
		if _, dup := added[c.ID]; !dup {
			next = append(next, c)
		}
	}
	return w.setJSON(ctx, CustomCompaniesKey, next)
}

// readJSON decodes the value at key. Missing or corrupt values yield fallback.
func readJSON[T any](ctx context.Context, store Store, key string, fallback T) (T, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback, nil
	}
	return v, nil
}

func (w *Workspace) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return w.store.Set(ctx, key, raw)
}
