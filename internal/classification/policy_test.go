package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "socialpulse/internal/errors"
	"socialpulse/pkg/contracts/domain"
)

func TestPolicyCombine(t *testing.T) {
	reachPolicy := MustPolicy(domain.MetricReach)
	engagementPolicy := MustPolicy(domain.MetricEngagements)

	v, err := reachPolicy.Combine([]int64{100000, 120000})
	require.NoError(t, err)
	assert.Equal(t, int64(110000), v)

	v, err = engagementPolicy.Combine([]int64{500, 700})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), v)

	v, err = reachPolicy.Combine(nil)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = MustPolicy(domain.MetricStatus).Combine([]int64{1, 2})
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeAggregation))
}

func TestPolicyCombineRecords(t *testing.T) {
	p1, _ := domain.ISOWeekPeriod(2025, 1)
	p2, _ := domain.ISOWeekPeriod(2025, 2)
	records := []domain.WeeklyRecord{
		{Page: domain.NewPage("P1", "One"), Period: p1, Metrics: domain.Metrics{Reach: 100000, Engagements: 500}},
		{Page: domain.NewPage("P1", "One"), Period: p2, Metrics: domain.Metrics{Reach: 120000, Engagements: 700}},
	}

	v, err := MustPolicy(domain.MetricReach).CombineRecords(records)
	require.NoError(t, err)
	assert.Equal(t, int64(110000), v)
}

func TestPolicyFor_Unknown(t *testing.T) {
	_, err := PolicyFor("followers")
	assert.Error(t, err)
	assert.Panics(t, func() { MustPolicy("followers") })
}
