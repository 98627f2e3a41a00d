package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/core"
	"datalens/internal/errors"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	file := &ProcessedFile{
		ID:       core.NewFileID(),
		Filename: "sales.csv",
		Kind:     KindTabular,
	}
	s.Put(file)

	got, err := s.Get(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", got.Filename)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreUnknownID(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(core.NewFileID())
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f := &ProcessedFile{ID: core.NewFileID(), Kind: KindDocument}
			s.Put(f)
			_, err := s.Get(f.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
}
