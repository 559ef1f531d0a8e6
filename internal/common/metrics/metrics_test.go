package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIntake_ObserveSubmission(t *testing.T) {
	before := testutil.ToFloat64(IntakeSubmissions.WithLabelValues("success"))

	Intake{}.ObserveSubmission("success", 120*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(IntakeSubmissions.WithLabelValues("success")))
}

func TestIntake_AdvisoryFailed(t *testing.T) {
	before := testutil.ToFloat64(IntakeAdvisoryFailures.WithLabelValues("email"))

	Intake{}.AdvisoryFailed("email")

	assert.Equal(t, before+1, testutil.ToFloat64(IntakeAdvisoryFailures.WithLabelValues("email")))
}
