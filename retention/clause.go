package retention

// Stats holds the running counters a learned clause accumulates. The rdb1_*
// fields are snapshots taken at the previous reduction round.
type Stats struct {
	// Glue metrics
	Glue         uint32  `yaml:"glue" json:"glue"`
	GlueRelQueue float32 `yaml:"glue_rel_queue" json:"glue_rel_queue" validate:"gte=0,finite"`
	GlueRelLong  float32 `yaml:"glue_rel_long" json:"glue_rel_long" validate:"gte=0,finite"`

	// Size metrics
	SizeRel float32 `yaml:"size_rel" json:"size_rel" validate:"gte=0,finite"`

	// Usage metrics
	UsedForUIPCreation     uint32 `yaml:"used_for_uip_creation" json:"used_for_uip_creation"`
	Rdb1UsedForUIPCreation uint32 `yaml:"rdb1_used_for_uip_creation" json:"rdb1_used_for_uip_creation"`
	SumUIP1Used            uint32 `yaml:"sum_uip1_used" json:"sum_uip1_used"`
	SumDeltaConflUIP1Used  uint64 `yaml:"sum_delta_confl_uip1_used" json:"sum_delta_confl_uip1_used"`

	// Age and provenance
	IntroducedAtConflict uint64 `yaml:"introduced_at_conflict" json:"introduced_at_conflict"`
	DumpNumber           uint32 `yaml:"dump_number" json:"dump_number"`
	Rdb1LastTouchedDiff  uint32 `yaml:"rdb1_last_touched_diff" json:"rdb1_last_touched_diff"`

	// Antecedent metrics
	NumTotalLitsAntecedents    uint32  `yaml:"num_total_lits_antecedents" json:"num_total_lits_antecedents"`
	AntecNumTotalLitsRel       float32 `yaml:"antec_num_total_lits_rel" json:"antec_num_total_lits_rel" validate:"gte=0,finite"`
	NumAntecedentsRel          float32 `yaml:"num_antecedents_rel" json:"num_antecedents_rel" validate:"gte=0,finite"`
	AntecedentsGlueLongRedsVar float32 `yaml:"antecedents_glue_long_reds_var" json:"antecedents_glue_long_reds_var" validate:"gte=0,finite"`

	// Overlap metrics
	NumOverlapLiterals    uint32  `yaml:"num_overlap_literals" json:"num_overlap_literals"`
	NumOverlapLiteralsRel float32 `yaml:"num_overlap_literals_rel" json:"num_overlap_literals_rel" validate:"gte=0,finite"`
}

// Clause is the read-only view of a learned clause the classifier needs.
// Implementations must not mutate the returned Stats while a classification
// is in flight.
type Clause interface {
	Size() uint32
	Stats() *Stats
}

// Record is a plain-value Clause, used by replay tooling and tests.
type Record struct {
	Len        uint32 `yaml:"size" json:"size" validate:"gte=1"`
	Statistics Stats  `yaml:"stats" json:"stats"`
}

func (r *Record) Size() uint32  { return r.Len }
func (r *Record) Stats() *Stats { return &r.Statistics }

// Inputs are the solver-side scalars that accompany a clause. SumConflicts is
// the solver's monotone conflict counter; the rdb0 values are computed by the
// reducer from its own bookkeeping.
type Inputs struct {
	SumConflicts    uint64
	LastTouchedDiff uint32
	ActRanking      uint32
	ActRankingTop10 uint32
}
