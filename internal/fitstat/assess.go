package fitstat

import (
	"math"
	"sort"
)

const probEpsilon = 1e-15

// assessment is the computed content of one partition, keyed by column name.
type assessment struct {
	fitStat map[string]any
	roc     []map[string]any
	lift    []map[string]any
}

type scored struct {
	event bool
	prob  float64
}

// pairCounts counts event/non-event pairs ordered by probability.
type pairCounts struct {
	concordant, discordant, tied float64
	events, nonEvents            int
}

func ratio(num, den float64) any {
	if den == 0 {
		return nil
	}
	return num / den
}

func countPairs(rows []scored) pairCounts {
	var nonEvent []float64
	var pc pairCounts
	for _, r := range rows {
		if r.event {
			pc.events++
		} else {
			nonEvent = append(nonEvent, r.prob)
		}
	}
	pc.nonEvents = len(nonEvent)
	sort.Float64s(nonEvent)

	for _, r := range rows {
		if !r.event {
			continue
		}
		below := sort.SearchFloat64s(nonEvent, r.prob)
		upTo := sort.Search(len(nonEvent), func(i int) bool { return nonEvent[i] > r.prob })
		pc.concordant += float64(below)
		pc.tied += float64(upTo - below)
		pc.discordant += float64(len(nonEvent) - upTo)
	}
	return pc
}

// rankStats returns C, GINI, GAMMA and TAU. Each is nil when undefined.
func rankStats(pc pairCounts) map[string]any {
	out := map[string]any{"_C_": nil, "_GINI_": nil, "_GAMMA_": nil, "_TAU_": nil}
	pairs := float64(pc.events) * float64(pc.nonEvents)
	if pairs == 0 {
		return out
	}
	c := (pc.concordant + 0.5*pc.tied) / pairs
	out["_C_"] = c
	out["_GINI_"] = 2*c - 1
	out["_GAMMA_"] = ratio(pc.concordant-pc.discordant, pc.concordant+pc.discordant)
	n := float64(pc.events + pc.nonEvents)
	out["_TAU_"] = (pc.concordant - pc.discordant) / (n * (n - 1) / 2)
	return out
}

type confusion struct {
	tp, fp, fn, tn int
}

func confusionAt(rows []scored, cutoff float64) confusion {
	var c confusion
	for _, r := range rows {
		predicted := r.prob >= cutoff
		switch {
		case predicted && r.event:
			c.tp++
		case predicted:
			c.fp++
		case r.event:
			c.fn++
		default:
			c.tn++
		}
	}
	return c
}

func assess(rows []scored, target string, threshold float64) assessment {
	n := float64(len(rows))
	column := "P_" + target
	pc := countPairs(rows)
	ranks := rankStats(pc)

	var sse, logLoss float64
	var miss int
	for _, r := range rows {
		y := 0.0
		if r.event {
			y = 1
		}
		sse += (y - r.prob) * (y - r.prob)
		p := math.Min(math.Max(r.prob, probEpsilon), 1-probEpsilon)
		logLoss -= y*math.Log(p) + (1-y)*math.Log(1-p)
		if (r.prob >= threshold) != r.event {
			miss++
		}
	}

	a := assessment{}
	a.roc, a.fitStat = rocRows(rows, column, target, ranks)
	ase := sse / n
	a.fitStat["_NObs_"] = len(rows)
	a.fitStat["_DIV_"] = len(rows)
	a.fitStat["_ASE_"] = ase
	a.fitStat["_RASE_"] = math.Sqrt(ase)
	a.fitStat["_MCE_"] = float64(miss) / n
	a.fitStat["_MCLL_"] = logLoss / n
	a.fitStat["_KSPostCutoff_"] = nil
	for k, v := range ranks {
		a.fitStat[k] = v
	}
	a.lift = liftRows(rows, column, target, pc.events)
	return a
}

// rocRows evaluates the 100 cutoffs 0.00 to 0.99. The returned fit statistic
// map carries KS and its cutoff.
func rocRows(rows []scored, column, target string, ranks map[string]any) ([]map[string]any, map[string]any) {
	n := float64(len(rows))
	out := make([]map[string]any, 0, rocRowsPerPartition)
	var bestKS any
	var bestCut any
	for i := 0; i < rocRowsPerPartition; i++ {
		cutoff := float64(i) / 100
		c := confusionAt(rows, cutoff)
		tp, fp, fn, tn := float64(c.tp), float64(c.fp), float64(c.fn), float64(c.tn)

		sens := ratio(tp, tp+fn)
		spec := ratio(tn, tn+fp)
		fpr := ratio(fp, fp+tn)
		precision := ratio(tp, tp+fp)

		row := map[string]any{
			"_Column_":              column,
			"_Event_":               target,
			"_Cutoff_":              cutoff,
			"_TP_":                  c.tp,
			"_FP_":                  c.fp,
			"_FN_":                  c.fn,
			"_TN_":                  c.tn,
			"_Sensitivity_":         sens,
			"_Specificity_":         spec,
			"_FPR_":                 fpr,
			"_OneMinusSpecificity_": fpr,
			"_KS_":                  nil,
			"_KS2_":                 nil,
			"_FHALF_":               nil,
			"_ACC_":                 (tp + tn) / n,
			"_FDR_":                 ratio(fp, tp+fp),
			"_F1_":                  ratio(2*tp, 2*tp+fp+fn),
			"_MiscEvent_":           (fp + fn) / n,
		}
		if s, ok := sens.(float64); ok {
			if sp, ok := spec.(float64); ok {
				ks := s + sp - 1
				row["_KS_"] = ks
				row["_KS2_"] = math.Abs(s - (1 - sp))
				if best, ok := bestKS.(float64); !ok || ks > best {
					bestKS, bestCut = ks, cutoff
				}
			}
			if p, ok := precision.(float64); ok {
				row["_FHALF_"] = ratio(1.25*p*s, 0.25*p+s)
			}
		}
		for k, v := range ranks {
			row[k] = v
		}
		out = append(out, row)
	}
	return out, map[string]any{"_KS_": bestKS, "_KSCut_": bestCut}
}

// liftRows returns a depth 0 row followed by one row per 5% bin of the
// partition sorted by descending probability.
func liftRows(rows []scored, column, target string, events int) []map[string]any {
	sorted := append([]scored(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].prob > sorted[j].prob })

	n := len(sorted)
	e := float64(events)
	rate := ratio(e, float64(n))

	out := make([]map[string]any, 0, liftRowsPerPartition)
	out = append(out, map[string]any{"_Column_": column, "_Event_": target, "_Depth_": 0})

	var cumObs, cumEvents, cumBest float64
	for k := 1; k <= liftBins; k++ {
		start := (k - 1) * n / liftBins
		end := k * n / liftBins
		bin := sorted[start:end]

		nObs := float64(len(bin))
		var nEvents float64
		for _, r := range bin {
			if r.event {
				nEvents++
			}
		}
		best := math.Max(0, math.Min(e-float64(start), nObs))
		cumObs += nObs
		cumEvents += nEvents
		cumBest += best

		row := map[string]any{
			"_Column_":         column,
			"_Event_":          target,
			"_Depth_":          k * 100 / liftBins,
			"_Value_":          nil,
			"_NObs_":           len(bin),
			"_NEvents_":        int(nEvents),
			"_NEventsBest_":    int(best),
			"_Resp_":           pct(nEvents, nObs),
			"_RespBest_":       pct(best, nObs),
			"_CumResp_":        pct(cumEvents, cumObs),
			"_CumRespBest_":    pct(cumBest, cumObs),
			"_PctResp_":        pct(nEvents, e),
			"_PctRespBest_":    pct(best, e),
			"_CumPctResp_":     pct(cumEvents, e),
			"_CumPctRespBest_": pct(cumBest, e),
		}
		if len(bin) > 0 {
			row["_Value_"] = bin[len(bin)-1].prob
		}
		lift := func(resp any) any {
			rv, ok := resp.(float64)
			r, ok2 := rate.(float64)
			if !ok || !ok2 || r == 0 {
				return nil
			}
			return rv / (100 * r)
		}
		row["_Lift_"] = lift(row["_Resp_"])
		row["_LiftBest_"] = lift(row["_RespBest_"])
		row["_CumLift_"] = lift(row["_CumResp_"])
		row["_CumLiftBest_"] = lift(row["_CumRespBest_"])
		row["_Gain_"] = gain(row["_CumLift_"])
		row["_GainBest_"] = gain(row["_CumLiftBest_"])
		out = append(out, row)
	}
	return out
}

func pct(num, den float64) any {
	if den == 0 {
		return nil
	}
	return 100 * num / den
}

func gain(cumLift any) any {
	if l, ok := cumLift.(float64); ok {
		return 100 * (l - 1)
	}
	return nil
}
