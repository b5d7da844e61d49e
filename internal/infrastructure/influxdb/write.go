package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteScanMetric records the outcome of a broken-reference scan.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - brokenCount: Number of broken references found
//   - entityCount: Number of entities in the registry at scan time
//   - duration: How long the scan took
//
// Example:
//
//	client.WriteScanMetric(3, 412, 850*time.Millisecond)
func (c *Client) WriteScanMetric(brokenCount int, entityCount int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"reference_scan",
		map[string]string{},
		map[string]interface{}{
			"broken_count": brokenCount,
			"entity_count": entityCount,
			"duration_ms":  duration.Milliseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRenameMetric records the outcome of a rename operation.
//
// Used for tracking rename activity and dependency update success rates.
//
// Parameters:
//   - kind: What was renamed ("entity", "device", or "area")
//   - updatedDocs: Number of dependent documents updated successfully
//   - failedDocs: Number of dependent documents that could not be updated
func (c *Client) WriteRenameMetric(kind string, updatedDocs int, failedDocs int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"rename",
		map[string]string{
			"kind": kind,
		},
		map[string]interface{}{
			"updated_docs": updatedDocs,
			"failed_docs":  failedDocs,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteFixMetric records a broken-reference fix being applied.
//
// Parameters:
//   - configType: The document kind the fix was applied to ("automation", "scene", "script")
//   - applied: Whether the fix persisted successfully
func (c *Client) WriteFixMetric(configType string, applied bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"reference_fix",
		map[string]string{
			"config_type": configType,
		},
		map[string]interface{}{
			"applied": applied,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "restructurer-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
