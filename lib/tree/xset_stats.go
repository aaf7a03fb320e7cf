package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	XSetStatsName = "xset"
)

type xSetStats struct {
	attrs       metric.MeasurementOption
	insertCount metric.Int64Counter
	removeCount metric.Int64Counter
	rotateCount metric.Int64Counter
	elemCount   metric.Int64UpDownCounter
}

func (stats *xSetStats) RecordInsert(rotations uint64) {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1, stats.attrs)
	stats.elemCount.Add(context.Background(), 1, stats.attrs)
	if rotations > 0 {
		stats.rotateCount.Add(context.Background(), int64(rotations), stats.attrs)
	}
}

func (stats *xSetStats) RecordRemove(rotations uint64) {
	if stats == nil {
		return
	}
	stats.removeCount.Add(context.Background(), 1, stats.attrs)
	stats.elemCount.Add(context.Background(), -1, stats.attrs)
	if rotations > 0 {
		stats.rotateCount.Add(context.Background(), int64(rotations), stats.attrs)
	}
}

func (stats *xSetStats) RecordClear(released int64) {
	if stats == nil || released <= 0 {
		return
	}
	stats.elemCount.Add(context.Background(), -released, stats.attrs)
}

func newXSetStats(name string, mp metric.MeterProvider) *xSetStats {
	if len(name) == 0 {
		name = "default"
	}
	meterName := fmt.Sprintf("%s/%s", XSetStatsName, name)
	var meter metric.Meter
	if mp != nil {
		meter = mp.Meter(meterName)
	} else {
		meter = otel.Meter(meterName)
	}

	return &xSetStats{
		attrs: metric.WithAttributeSet(attribute.NewSet(
			attribute.String("xset.name", name),
		)),
		insertCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xset.insert.count",
			metric.WithDescription("The number of elements inserted into the set."),
		)),
		removeCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xset.remove.count",
			metric.WithDescription("The number of elements removed from the set."),
		)),
		rotateCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xset.rotate.count",
			metric.WithDescription("The number of rotations to rebalance the red-black tree."),
		)),
		elemCount: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"xset.len",
			metric.WithDescription("The number of elements in the set."),
		)),
	}
}
