package services

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infohub-ai/knowledge-companion/internal/model"
)

func TestSearch_DedupesAliasesToParentCustomer(t *testing.T) {
	st := newFakeStore()
	acme := st.addCustomer("Acme Corp")
	globex := st.addCustomer("Globex")
	st.rank = []rankRow{
		{recordID: uuid.New(), customerID: acme.ID, text: "Acme Corp", vec: []float32{1, 0, 0}, seq: 1},
		{recordID: uuid.New(), customerID: acme.ID, text: "Acme Holdings", vec: []float32{0.9, 0, 0}, seq: 2},
		{recordID: uuid.New(), customerID: globex.ID, text: "Globex", vec: []float32{0, 1, 0}, seq: 3},
	}
	emb := &fakeEmbedder{vecs: map[string][]float32{"acme": {1, 0, 0}}}
	svc := NewSearchService(st, emb)

	got, err := svc.Search(context.Background(), "acme", 10, model.KindAlias)
	require.NoError(t, err)

	// Both Acme aliases rank ahead of Globex but collapse to one match
	// carrying the best (smallest) distance.
	require.Len(t, got, 2)
	assert.Equal(t, acme.ID, got[0].Customer.ID)
	assert.InDelta(t, 0.0, got[0].Distance, 1e-9)
	assert.Equal(t, globex.ID, got[1].Customer.ID)
	assert.InDelta(t, math.Sqrt2, got[1].Distance, 1e-6)
}

func TestSearch_TopKLimitsRowsNotCustomers(t *testing.T) {
	st := newFakeStore()
	acme := st.addCustomer("Acme Corp")
	globex := st.addCustomer("Globex")
	st.rank = []rankRow{
		{recordID: uuid.New(), customerID: acme.ID, text: "Acme Corp", vec: []float32{1, 0, 0}, seq: 1},
		{recordID: uuid.New(), customerID: acme.ID, text: "Acme Holdings", vec: []float32{0.9, 0, 0}, seq: 2},
		{recordID: uuid.New(), customerID: globex.ID, text: "Globex", vec: []float32{0, 1, 0}, seq: 3},
	}
	svc := NewSearchService(st, &fakeEmbedder{vecs: map[string][]float32{"acme": {1, 0, 0}}})

	// topK=2 keeps only the two alias rows, both Acme's, so Globex drops out.
	got, err := svc.Search(context.Background(), "acme", 2, model.KindAlias)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, acme.ID, got[0].Customer.ID)
}

func TestSearch_EquidistantRowsOrderByInsertion(t *testing.T) {
	st := newFakeStore()
	first := st.addCustomer("First In")
	second := st.addCustomer("Second In")
	st.rank = []rankRow{
		{recordID: uuid.New(), customerID: second.ID, text: "b", vec: []float32{0, 1, 0}, seq: 8},
		{recordID: uuid.New(), customerID: first.ID, text: "a", vec: []float32{0, 1, 0}, seq: 3},
	}
	svc := NewSearchService(st, &fakeEmbedder{vecs: map[string][]float32{"q": {0, 1, 0}}})

	for i := 0; i < 5; i++ {
		got, err := svc.Search(context.Background(), "q", 10, model.KindAlias)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first.ID, got[0].Customer.ID)
		assert.Equal(t, second.ID, got[1].Customer.ID)
	}
}

func TestSearch_ValidatesInputBeforeEmbedding(t *testing.T) {
	emb := &fakeEmbedder{}
	svc := NewSearchService(newFakeStore(), emb)

	_, err := svc.Search(context.Background(), "   ", 5, model.KindAlias)
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Search(context.Background(), "acme", 0, model.KindAlias)
	require.ErrorIs(t, err, model.ErrValidation)

	assert.Zero(t, emb.calls)
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	svc := NewSearchService(newFakeStore(), &fakeEmbedder{})

	got, err := svc.Search(context.Background(), "anything", 5, model.KindAlias)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSearch_EmbedderFailurePropagates(t *testing.T) {
	emb := &fakeEmbedder{err: model.ErrEmbedding}
	svc := NewSearchService(newFakeStore(), emb)

	_, err := svc.Search(context.Background(), "acme", 5, model.KindAlias)
	assert.ErrorIs(t, err, model.ErrDependency)
}
