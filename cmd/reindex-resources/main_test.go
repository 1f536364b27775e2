package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/P3chys/studyshare-api/internal/models"
)

func TestBatches(t *testing.T) {
	resources := make([]models.Resource, 250)

	got := batches(resources, 100)
	assert.Len(t, got, 3)
	assert.Len(t, got[0], 100)
	assert.Len(t, got[2], 50)

	assert.Empty(t, batches(nil, 100))
}
