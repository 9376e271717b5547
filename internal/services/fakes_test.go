package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/infohub-ai/knowledge-companion/internal/llm"
	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/store"
)

// fakeEmbedder returns a deterministic vector per text and counts calls.
type fakeEmbedder struct {
	calls int
	err   error
	vecs  map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vecs[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

// fakeSummarizer derives summaries from the input so tests can assert the
// summary, not the raw text, is what gets embedded and stored.
type fakeSummarizer struct {
	calls           int
	structuredCalls int
	err             error
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "summary of " + text, nil
}

func (f *fakeSummarizer) SummarizeStructured(_ context.Context, text string) (llm.TitleSummary, error) {
	f.structuredCalls++
	if f.err != nil {
		return llm.TitleSummary{}, f.err
	}
	return llm.TitleSummary{
		Title:   "title of " + text,
		Summary: "summary of " + text,
	}, nil
}

// rankRow is one embeddable row the fake store can rank by L2 distance.
type rankRow struct {
	recordID   uuid.UUID
	customerID uuid.UUID
	text       string
	vec        []float32
	seq        int64
}

// fakeStore is an in-memory store.Store backed by maps and slices. Each
// sub-interface accessor returns a thin view over the shared state, mirroring
// how the postgres store is laid out.
type fakeStore struct {
	customers map[uuid.UUID]*model.Customer
	aliases   []model.CustomerAlias
	contacts  map[uuid.UUID]*model.Contact
	notes     []*model.Note
	tasks     []*model.Task
	requests  map[uuid.UUID]*model.FeatureRequest
	rank      []rankRow

	createCalls int
	updateCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: map[uuid.UUID]*model.Customer{},
		contacts:  map[uuid.UUID]*model.Contact{},
		requests:  map[uuid.UUID]*model.FeatureRequest{},
	}
}

func (f *fakeStore) Customers() store.Customers             { return fakeCustomers{f} }
func (f *fakeStore) Aliases() store.Aliases                 { return fakeAliases{f} }
func (f *fakeStore) Contacts() store.Contacts               { return fakeContacts{f} }
func (f *fakeStore) Notes() store.Notes                     { return fakeNotes{f} }
func (f *fakeStore) Tasks() store.Tasks                     { return fakeTasks{f} }
func (f *fakeStore) FeatureRequests() store.FeatureRequests { return fakeRequests{f} }
func (f *fakeStore) Neighbors() store.Neighbors             { return fakeNeighbors{f} }

func (f *fakeStore) Schema(_ context.Context) ([]model.TableSchema, error) {
	return []model.TableSchema{{Table: "customer", Columns: []string{"id", "name"}}}, nil
}

// addCustomer seeds a customer directly, bypassing the service layer.
func (f *fakeStore) addCustomer(name string) *model.Customer {
	c := &model.Customer{ID: uuid.New(), Name: name}
	f.customers[c.ID] = c
	return c
}

type fakeCustomers struct{ f *fakeStore }

func (w fakeCustomers) Create(_ context.Context, c *model.Customer, aliases []model.CustomerAlias) (*model.Customer, error) {
	w.f.createCalls++
	c.ID = uuid.New()
	for _, a := range aliases {
		a.ID = uuid.New()
		a.CustomerID = c.ID
		w.f.aliases = append(w.f.aliases, a)
		c.Aliases = append(c.Aliases, a.Alias)
	}
	w.f.customers[c.ID] = c
	return c, nil
}

func (w fakeCustomers) GetByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := w.f.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", model.ErrNotFound, id)
	}
	return c, nil
}

func (w fakeCustomers) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*model.Customer, error) {
	out := make([]*model.Customer, 0, len(ids))
	for _, id := range ids {
		if c, ok := w.f.customers[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (w fakeCustomers) Find(_ context.Context, id *uuid.UUID, name string) ([]*model.Customer, error) {
	var out []*model.Customer
	for _, c := range w.f.customers {
		if id != nil && c.ID != *id {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (w fakeCustomers) Rename(_ context.Context, id uuid.UUID, name string) error {
	c, ok := w.f.customers[id]
	if !ok {
		return fmt.Errorf("%w: customer %s", model.ErrNotFound, id)
	}
	c.Name = name
	return nil
}

func (w fakeCustomers) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := w.f.customers[id]; !ok {
		return fmt.Errorf("%w: customer %s", model.ErrNotFound, id)
	}
	delete(w.f.customers, id)
	return nil
}

type fakeAliases struct{ f *fakeStore }

func (w fakeAliases) Add(_ context.Context, customerID uuid.UUID, aliases []model.CustomerAlias) error {
	for _, a := range aliases {
		a.ID = uuid.New()
		a.CustomerID = customerID
		w.f.aliases = append(w.f.aliases, a)
	}
	return nil
}

func (w fakeAliases) DeleteByText(_ context.Context, customerID uuid.UUID, texts []string) (int64, error) {
	drop := map[string]bool{}
	for _, t := range texts {
		drop[t] = true
	}
	var kept []model.CustomerAlias
	var n int64
	for _, a := range w.f.aliases {
		if a.CustomerID == customerID && drop[a.Alias] {
			n++
			continue
		}
		kept = append(kept, a)
	}
	w.f.aliases = kept
	return n, nil
}

func (w fakeAliases) RefreshEmbedding(_ context.Context, customerID uuid.UUID, alias string, vec []float32) (bool, error) {
	for i := range w.f.aliases {
		if w.f.aliases[i].CustomerID == customerID && w.f.aliases[i].Alias == alias {
			w.f.aliases[i].Embedding = vec
			return true, nil
		}
	}
	return false, nil
}

type fakeContacts struct{ f *fakeStore }

func (w fakeContacts) Create(_ context.Context, c *model.Contact) (*model.Contact, error) {
	w.f.createCalls++
	c.ID = uuid.New()
	w.f.contacts[c.ID] = c
	return c, nil
}

func (w fakeContacts) GetByID(_ context.Context, id uuid.UUID) (*model.Contact, error) {
	c, ok := w.f.contacts[id]
	if !ok {
		return nil, fmt.Errorf("%w: contact %s", model.ErrNotFound, id)
	}
	cp := *c
	return &cp, nil
}

func (w fakeContacts) Update(_ context.Context, c *model.Contact) error {
	prev, ok := w.f.contacts[c.ID]
	if !ok {
		return fmt.Errorf("%w: contact %s", model.ErrNotFound, c.ID)
	}
	w.f.updateCalls++
	if c.Embedding == nil {
		c.Embedding = prev.Embedding
	}
	w.f.contacts[c.ID] = c
	return nil
}

func (w fakeContacts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := w.f.contacts[id]; !ok {
		return fmt.Errorf("%w: contact %s", model.ErrNotFound, id)
	}
	delete(w.f.contacts, id)
	return nil
}

func (w fakeContacts) Search(_ context.Context, customerID *uuid.UUID, filters []model.FieldFilter) ([]*model.Contact, error) {
	var out []*model.Contact
	for _, c := range w.f.contacts {
		if customerID != nil && c.CustomerID != *customerID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeNotes struct{ f *fakeStore }

func (w fakeNotes) Create(_ context.Context, n *model.Note) (*model.Note, error) {
	w.f.createCalls++
	n.ID = uuid.New()
	w.f.notes = append(w.f.notes, n)
	return n, nil
}

func (w fakeNotes) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*model.Note, error) {
	var out []*model.Note
	for _, n := range w.f.notes {
		if n.CustomerID == customerID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeTasks struct{ f *fakeStore }

func (w fakeTasks) Create(_ context.Context, tk *model.Task) (*model.Task, error) {
	w.f.createCalls++
	tk.ID = uuid.New()
	w.f.tasks = append(w.f.tasks, tk)
	return tk, nil
}

func (w fakeTasks) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*model.Task, error) {
	var out []*model.Task
	for _, tk := range w.f.tasks {
		if tk.CustomerID == customerID {
			out = append(out, tk)
		}
	}
	return out, nil
}

type fakeRequests struct{ f *fakeStore }

func (w fakeRequests) Create(_ context.Context, fr *model.FeatureRequest) (*model.FeatureRequest, error) {
	w.f.createCalls++
	fr.ID = uuid.New()
	w.f.requests[fr.ID] = fr
	return fr, nil
}

func (w fakeRequests) GetByID(_ context.Context, id uuid.UUID) (*model.FeatureRequest, error) {
	fr, ok := w.f.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: feature request %s", model.ErrNotFound, id)
	}
	cp := *fr
	return &cp, nil
}

func (w fakeRequests) Update(_ context.Context, fr *model.FeatureRequest) error {
	prev, ok := w.f.requests[fr.ID]
	if !ok {
		return fmt.Errorf("%w: feature request %s", model.ErrNotFound, fr.ID)
	}
	w.f.updateCalls++
	if fr.Embedding == nil {
		fr.Embedding = prev.Embedding
	}
	w.f.requests[fr.ID] = fr
	return nil
}

func (w fakeRequests) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := w.f.requests[id]; !ok {
		return fmt.Errorf("%w: feature request %s", model.ErrNotFound, id)
	}
	delete(w.f.requests, id)
	return nil
}

type fakeNeighbors struct{ f *fakeStore }

// Nearest ranks rank rows by true L2 distance, ties broken on seq, mirroring
// the SQL ordering. Rows with a nil vector are excluded.
func (w fakeNeighbors) Nearest(_ context.Context, kind model.Kind, vec []float32, topK int) ([]model.NearestHit, error) {
	hits := make([]model.NearestHit, 0, len(w.f.rank))
	for _, r := range w.f.rank {
		if r.vec == nil {
			continue
		}
		hits = append(hits, model.NearestHit{
			RecordID:   r.recordID,
			CustomerID: r.customerID,
			SourceText: r.text,
			Distance:   l2(vec, r.vec),
			Seq:        r.seq,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Seq < hits[j].Seq
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
