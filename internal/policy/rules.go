package policy

// direction of a move relative to the stage order.
type direction int

const (
	forward direction = iota
	backward
)

func directionOf(fromOrder, toOrder int) direction {
	if toOrder > fromOrder {
		return forward
	}
	return backward
}

// ruleKey is the full classification input: direction, adjacency (exactly
// one step forward), precondition satisfaction, and whether the target is
// a terminal/archival stage.
type ruleKey struct {
	dir      direction
	adjacent bool
	met      bool
	terminal bool
}

// ruleTable maps every classification input to a tier. All sixteen
// combinations are listed so the policy can be read as data:
//
//   - backward moves always confirm, whatever else is true
//   - forward moves with unmet preconditions always warn; the warnings
//     carry the detail, so even a terminal target does not escalate
//   - a clean single-step forward move is free, unless the target is
//     terminal (entering a terminal stage is destructive-adjacent)
//   - a clean forward skip confirms
var ruleTable = map[ruleKey]Tier{
	{backward, false, false, false}: TierConfirm,
	{backward, false, false, true}:  TierConfirm,
	{backward, false, true, false}:  TierConfirm,
	{backward, false, true, true}:   TierConfirm,
	{backward, true, false, false}:  TierConfirm,
	{backward, true, false, true}:   TierConfirm,
	{backward, true, true, false}:   TierConfirm,
	{backward, true, true, true}:    TierConfirm,

	{forward, false, false, false}: TierWarn,
	{forward, false, false, true}:  TierWarn,
	{forward, true, false, false}:  TierWarn,
	{forward, true, false, true}:   TierWarn,

	{forward, true, true, false}: TierFree,
	{forward, true, true, true}:  TierConfirm,

	{forward, false, true, false}: TierConfirm,
	{forward, false, true, true}:  TierConfirm,
}
