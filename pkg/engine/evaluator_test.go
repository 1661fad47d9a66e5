package engine

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/holder"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func testAccount() *holder.Account {
	return &holder.Account{
		ID:        "account:tester",
		Name:      "Tester",
		Room:      3,
		Exp:       12,
		Inventory: map[uint32]int64{7: 3},
		Skills:    map[uint32]int64{2: 4},
		Quests:    map[uint32]bool{11: true},
		Kamis:     []string{"kami:a", "kami:b"},
	}
}

func setCounter(t *testing.T, store attribute.Store, holderID string, kind condition.Kind, index uint32, value int64) {
	t.Helper()
	err := store.SetFields(context.Background(), holderID, map[string]string{
		CounterField(kind, index): strconv.FormatInt(value, 10),
	})
	if err != nil {
		t.Fatalf("Failed to set counter: %v", err)
	}
}

func TestEvaluate_CurrMin_ItemScenario(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	cond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "CURR_MIN",
		Target: condition.Target{Kind: condition.KindItem, Index: 7, Value: 5},
	}

	st := eval.Evaluate(ctx, cond, acct)
	assert.False(t, st.Completable)
	assert.Equal(t, int64(3), *st.Current)
	assert.Equal(t, int64(5), *st.Target)

	// Raising the balance to the threshold flips the result; equal passes.
	acct.Inventory[7] = 5
	st = eval.Evaluate(ctx, cond, acct)
	assert.True(t, st.Completable)
	assert.Equal(t, int64(5), *st.Current)
}

func TestEvaluate_NumericOperators(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		logic   condition.Logic
		balance int64
		want    bool
	}{
		{name: "min below fails", logic: "CURR_MIN", balance: 4, want: false},
		{name: "min equal passes", logic: "CURR_MIN", balance: 5, want: true},
		{name: "min above passes", logic: "CURR_MIN", balance: 6, want: true},
		{name: "max below passes", logic: "CURR_MAX", balance: 4, want: true},
		{name: "max equal passes", logic: "CURR_MAX", balance: 5, want: true},
		{name: "max above fails", logic: "CURR_MAX", balance: 6, want: false},
		{name: "equal matches", logic: "CURR_EQUAL", balance: 5, want: true},
		{name: "equal mismatch fails", logic: "CURR_EQUAL", balance: 4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := &holder.Account{ID: "account:ops", Inventory: map[uint32]int64{1: tt.balance}}
			cond := condition.Condition{
				ID:     uuid.New(),
				Logic:  tt.logic,
				Target: condition.Target{Kind: condition.KindItem, Index: 1, Value: 5},
			}
			assert.Equal(t, tt.want, eval.Evaluate(ctx, cond, acct).Completable)
		})
	}
}

func TestEvaluate_IncreaseSinceSnapshot(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	snaps := NewSnapshots(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	cond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "INC_MIN",
		Target: condition.Target{Kind: condition.Kind("HARVEST"), Index: 1, Value: 5},
	}

	if err := snaps.Record(ctx, cond.ID, acct.ID, 10); err != nil {
		t.Fatalf("Failed to record snapshot: %v", err)
	}
	setCounter(t, store, acct.ID, "HARVEST", 1, 15)

	st := eval.Evaluate(ctx, cond, acct)
	assert.True(t, st.Completable, "delta 5 meets threshold 5")
	assert.Equal(t, int64(5), *st.Current)

	cond.Target.Value = 6
	assert.False(t, eval.Evaluate(ctx, cond, acct).Completable)
}

func TestEvaluate_DecreaseSinceSnapshot(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	snaps := NewSnapshots(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	cond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "DEC_MIN",
		Target: condition.Target{Kind: condition.Kind("STAMINA"), Index: 0, Value: 8},
	}

	if err := snaps.Record(ctx, cond.ID, acct.ID, 20); err != nil {
		t.Fatalf("Failed to record snapshot: %v", err)
	}
	setCounter(t, store, acct.ID, "STAMINA", 0, 12)

	st := eval.Evaluate(ctx, cond, acct)
	assert.True(t, st.Completable, "delta 8 meets threshold 8")
	assert.Equal(t, int64(8), *st.Current)

	cond.Target.Value = 9
	assert.False(t, eval.Evaluate(ctx, cond, acct).Completable)
}

func TestEvaluate_MissingSnapshotReadsAsZero(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	cond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "INC_MIN",
		Target: condition.Target{Kind: condition.Kind("HARVEST"), Index: 1, Value: 15},
	}
	setCounter(t, store, acct.ID, "HARVEST", 1, 15)

	// No snapshot was ever recorded: the whole lifetime counter counts
	// as the delta.
	st := eval.Evaluate(ctx, cond, acct)
	assert.True(t, st.Completable)
	assert.Equal(t, int64(15), *st.Current)
}

func TestEvaluate_BooleanFacts(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	roomCond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "BOOL_IS",
		Target: condition.Target{Kind: condition.KindRoom, Value: 3},
	}
	assert.True(t, eval.Evaluate(ctx, roomCond, acct).Completable)

	roomCond.Logic = "BOOL_NOT"
	assert.False(t, eval.Evaluate(ctx, roomCond, acct).Completable)

	roomCond.Target.Value = 9
	assert.True(t, eval.Evaluate(ctx, roomCond, acct).Completable, "NOT of a false fact holds")

	questCond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "BOOL_IS",
		Target: condition.Target{Kind: condition.KindQuest, Index: 11},
	}
	assert.True(t, eval.Evaluate(ctx, questCond, acct).Completable)

	questCond.Target.Index = 12
	assert.False(t, eval.Evaluate(ctx, questCond, acct).Completable)
}

func TestEvaluate_CompletionPointer(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	ref := uuid.New()
	cond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "BOOL_IS",
		Target: condition.Target{Kind: condition.KindCompleteComp, Ref: ref},
	}

	assert.False(t, eval.Evaluate(ctx, cond, acct).Completable, "no completion marker yet")

	err := store.SetFields(ctx, ref.String(), map[string]string{CompletedField: "true"})
	assert.NoError(t, err)
	assert.True(t, eval.Evaluate(ctx, cond, acct).Completable)
}

func TestEvaluate_NumericOperatorOnBooleanFailsClosed(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	cond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "BOOL_MIN",
		Target: condition.Target{Kind: condition.KindRoom, Value: 3},
	}
	assert.False(t, eval.Evaluate(ctx, cond, acct).Completable)
}

func TestEvaluate_UnknownHandlerFallsBackToCurrent(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	cond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "XYZ_MIN",
		Target: condition.Target{Kind: condition.KindItem, Index: 7, Value: 3},
	}

	st := eval.Evaluate(ctx, cond, acct)
	assert.True(t, st.Completable, "fallback evaluates as CURR_MIN")
	assert.Equal(t, int64(3), *st.Current)
}

func TestEvaluate_UnknownKindReadsAsZero(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	cond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "CURR_MIN",
		Target: condition.Target{Kind: condition.Kind("NO_SUCH_KIND"), Value: 1},
	}
	st := eval.Evaluate(ctx, cond, acct)
	assert.False(t, st.Completable)
	assert.Equal(t, int64(0), *st.Current)

	cond.Logic = "BOOL_IS"
	assert.False(t, eval.Evaluate(ctx, cond, acct).Completable)
}

func TestEvaluate_EmptyConditionFailsClosed(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()

	st := eval.Evaluate(context.Background(), condition.Condition{}, acct)
	assert.False(t, st.Completable)
	assert.Nil(t, st.Current)
	assert.Nil(t, st.Target)
}

func TestEvaluate_KamiHolder(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	ctx := context.Background()

	acct := testAccount()
	kami := &holder.Kami{
		ID:     "kami:a",
		Name:   "Aki",
		Exp:    7,
		Skills: map[uint32]int64{2: 9},
		Owner:  acct,
	}

	skillCond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "CURR_MIN",
		Target: condition.Target{Kind: condition.KindSkill, Index: 2, Value: 9},
	}
	assert.True(t, eval.Evaluate(ctx, skillCond, kami).Completable)

	levelCond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "CURR_MIN",
		Target: condition.Target{Kind: condition.KindLevel, Value: 7},
	}
	assert.True(t, eval.Evaluate(ctx, levelCond, kami).Completable)

	// A kami holds no inventory and has no location: both read as zero.
	itemCond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "CURR_MIN",
		Target: condition.Target{Kind: condition.KindItem, Index: 7, Value: 1},
	}
	st := eval.Evaluate(ctx, itemCond, kami)
	assert.False(t, st.Completable)
	assert.Equal(t, int64(0), *st.Current)

	roomCond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "BOOL_IS",
		Target: condition.Target{Kind: condition.KindRoom, Value: 3},
	}
	assert.False(t, eval.Evaluate(ctx, roomCond, kami).Completable)

	// Kami count answers through the owning account.
	kamiCond := condition.Condition{
		ID:     uuid.New(),
		Logic:  "CURR_MIN",
		Target: condition.Target{Kind: condition.KindKami, Value: 2},
	}
	assert.True(t, eval.Evaluate(ctx, kamiCond, kami).Completable)

	kami.Owner = nil
	assert.False(t, eval.Evaluate(ctx, kamiCond, kami).Completable)
}

func TestPassesAll(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	passing := condition.Condition{
		ID:     uuid.New(),
		Logic:  "CURR_MIN",
		Target: condition.Target{Kind: condition.KindItem, Index: 7, Value: 3},
	}
	failing := condition.Condition{
		ID:     uuid.New(),
		Logic:  "CURR_MIN",
		Target: condition.Target{Kind: condition.KindItem, Index: 7, Value: 99},
	}

	assert.True(t, eval.PassesAll(ctx, nil, acct), "empty list is vacuously true")
	assert.True(t, eval.PassesAll(ctx, []condition.Condition{passing, passing}, acct))
	assert.False(t, eval.PassesAll(ctx, []condition.Condition{passing, failing}, acct))
	assert.False(t, eval.PassesAll(ctx, []condition.Condition{failing, passing}, acct))
}

func TestEvaluateAll_EvaluatesEveryCondition(t *testing.T) {
	store := attribute.NewMemoryStore()
	eval := New(store, testLogger())
	acct := testAccount()
	ctx := context.Background()

	conds := []condition.Condition{
		{ID: uuid.New(), Logic: "CURR_MIN", Target: condition.Target{Kind: condition.KindItem, Index: 7, Value: 99}},
		{ID: uuid.New(), Logic: "CURR_MIN", Target: condition.Target{Kind: condition.KindItem, Index: 7, Value: 1}},
	}

	statuses := eval.EvaluateAll(ctx, conds, acct)
	assert.Len(t, statuses, 2)
	assert.False(t, statuses[0].Completable)
	assert.True(t, statuses[1].Completable, "evaluation continues past failures")
}

func TestEvaluateAll_SingleLogicalInstant(t *testing.T) {
	store := attribute.NewMemoryStore()
	acct := testAccount()
	ctx := context.Background()

	// interceptStore bumps the counter after the first read, simulating
	// a concurrent write landing mid-batch.
	setCounter(t, store, acct.ID, condition.KindCoin, 0, 10)
	intercept := &interceptStore{Store: store, after: func() {
		setCounter(t, store, acct.ID, condition.KindCoin, 0, 99)
	}}
	eval := New(intercept, testLogger())

	coinCheck := condition.Target{Kind: condition.KindCoin, Value: 10}
	conds := []condition.Condition{
		{ID: uuid.New(), Logic: "CURR_MIN", Target: coinCheck},
		{ID: uuid.New(), Logic: "CURR_MIN", Target: coinCheck},
	}

	statuses := eval.EvaluateAll(ctx, conds, acct)
	assert.Equal(t, *statuses[0].Current, *statuses[1].Current, "batch must not observe a torn read")
	assert.Equal(t, int64(10), *statuses[1].Current)
}

// interceptStore runs a hook after the first successful GetField.
type interceptStore struct {
	attribute.Store
	after func()
	fired bool
}

func (s *interceptStore) GetField(ctx context.Context, entityID, field string) (string, bool, error) {
	value, ok, err := s.Store.GetField(ctx, entityID, field)
	if !s.fired && s.after != nil {
		s.fired = true
		s.after()
	}
	return value, ok, err
}
