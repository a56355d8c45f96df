package fitstat

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/core/domain"
)

// DefaultThreshold is the event probability cutoff used when none is given.
const DefaultThreshold = 0.5

// Partitions holds the scored data for each partition. Any may be nil but
// not all of them.
type Partitions struct {
	Validate *Dataset `json:"validate,omitempty"`
	Train    *Dataset `json:"train,omitempty"`
	Test     *Dataset `json:"test,omitempty"`
}

func (p Partitions) get(part domain.Partition) *Dataset {
	switch part {
	case domain.PartitionValidate:
		return p.Validate
	case domain.PartitionTest:
		return p.Test
	default:
		return p.Train
	}
}

type CalculateOptions struct {
	TargetValue string
	// Threshold defaults to DefaultThreshold when nil.
	Threshold *float64
}

// Result holds the three filled documents.
type Result struct {
	FitStat *Document
	ROC     *Document
	Lift    *Document
}

// Files renders the documents keyed by their Model Manager file names.
func (r *Result) Files() (map[string][]byte, error) {
	files := make(map[string][]byte, 3)
	for name, doc := range map[string]*Document{
		artifacts.FitStatFile: r.FitStat,
		artifacts.ROCFile:     r.ROC,
		artifacts.LiftFile:    r.Lift,
	} {
		data, err := doc.Marshal()
		if err != nil {
			return nil, err
		}
		files[name] = data
	}
	return files, nil
}

// Write writes the documents to dir, or returns them when dir is empty.
func (r *Result) Write(dir string) (map[string][]byte, error) {
	files, err := r.Files()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return files, nil
	}
	for name, data := range files {
		if _, err := artifacts.WriteOrReturn(dir, name, data); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// CalculateModelStatistics computes fit statistics, ROC and Lift for every
// supplied partition. Partitions are assessed concurrently; rows of missing
// partitions stay null.
func CalculateModelStatistics(ctx context.Context, opts CalculateOptions, parts Partitions) (*Result, error) {
	target := NormalizeLabel(opts.TargetValue)
	if target == "" {
		return nil, fmt.Errorf("%w: target value is required", domain.ErrInvalidTargetValues)
	}
	threshold := DefaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %v is outside [0, 1]", domain.ErrInvalidParameter, threshold)
	}

	results := make([]*assessment, len(domain.Partitions))
	g, ctx := errgroup.WithContext(ctx)
	present := 0
	for i, part := range domain.Partitions {
		ds := parts.get(part)
		if ds == nil {
			continue
		}
		present++
		g.Go(func() error {
			if err := ds.Validate(); err != nil {
				return fmt.Errorf("%s data: %w", part, err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			probs := ds.Probabilities(target)
			rows := make([]scored, ds.Len())
			for j := range rows {
				rows[j] = scored{event: ds.Actual[j] == target, prob: probs[j]}
			}
			a := assess(rows, target, threshold)
			results[i] = &a
			log.WithFields(log.Fields{
				"partition": part.String(),
				"rows":      len(rows),
			}).Debug("Partition assessed")
			return nil
		})
	}
	if present == 0 {
		return nil, domain.ErrNoPartitionData
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("calculate model statistics: %w", err)
	}

	res := &Result{FitStat: NewFitStatDocument(), ROC: NewROCDocument(), Lift: NewLiftDocument()}
	for i, part := range domain.Partitions {
		a := results[i]
		if a == nil {
			continue
		}
		fill(res.FitStat, part, 1, []map[string]any{a.fitStat})
		fill(res.ROC, part, rocRowsPerPartition, a.roc)
		fill(res.Lift, part, liftRowsPerPartition, a.lift)
	}
	return res, nil
}

func fill(doc *Document, part domain.Partition, perPartition int, values []map[string]any) {
	offset := partitionOffset(part, perPartition)
	for i, vals := range values {
		for k, v := range vals {
			doc.Data[offset+i].DataMap[k] = v
		}
	}
}
