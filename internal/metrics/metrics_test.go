package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAggregation(t *testing.T) {
	before := testutil.ToFloat64(RecordsProcessed.WithLabelValues("test-source"))

	RecordAggregation("test-source", 3, 2)

	assert.Equal(t, before+3, testutil.ToFloat64(RecordsProcessed.WithLabelValues("test-source")))
}

func TestRecordUploadAndNotification(t *testing.T) {
	RecordUpload("submission", "success")
	RecordNotification("failed")
	RecordError("notify", "smtp")

	assert.GreaterOrEqual(t, testutil.ToFloat64(UploadsTotal.WithLabelValues("submission", "success")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(NotificationsTotal.WithLabelValues("failed")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(ErrorsTotal.WithLabelValues("notify", "smtp")), 1.0)
}
