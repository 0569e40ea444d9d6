package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassifyUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"context deadline", context.DeadlineExceeded},
		{"context canceled", context.Canceled},
		{"lock not available", &pq.Error{Code: "55P03"}},
		{"query canceled", &pq.Error{Code: "57014"}},
		{"serialization failure", &pq.Error{Code: "40001"}},
		{"deadlock detected", &pq.Error{Code: "40P01"}},
		{"connection failure", &pq.Error{Code: "08006"}},
		{"out of memory", &pq.Error{Code: "53200"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			classified := classify(tc.err)
			assert.ErrorIs(t, classified, ErrUnavailable)
			assert.ErrorIs(t, classified, tc.err, "original cause stays inspectable")
		})
	}
}

func TestClassifyPassesThroughOtherErrors(t *testing.T) {
	cause := fmt.Errorf("some query error")
	assert.Equal(t, cause, classify(cause))
	assert.NoError(t, classify(nil))

	notNull := &pq.Error{Code: "23502"}
	assert.NotErrorIs(t, classify(notNull), ErrUnavailable)
}

func TestClassifySurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to commit transfer: %w", classify(&pq.Error{Code: "55P03"}))
	assert.ErrorIs(t, wrapped, ErrUnavailable)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}
