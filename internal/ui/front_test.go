package ui

import (
	"context"
	"io"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/juicebox/currency"
	"github.com/temoto/juicebox/internal/inventory"
	"github.com/temoto/juicebox/internal/state"
	"github.com/temoto/juicebox/internal/types"
)

const (
	appleIndex = 0
	mangoIndex = 2
)

type tenv struct {
	m       *state.Machine
	ui      *UI
	p       *types.MockPresenter
	states  []State
	errlogs []error
}

func newTestEnv(t testing.TB, conf string, script ...types.MockStep) *tenv {
	env := &tenv{m: state.NewTestMachine(t, conf)}
	env.m.Log.SetErrorFunc(func(err error) { env.errlogs = append(env.errlogs, err) })
	env.p = types.NewMockPresenter(script...)
	env.ui = NewUI(env.m, env.p)
	env.ui.XXX_testHook = func(s State) { env.states = append(env.states, s) }
	return env
}

func (env *tenv) run(t testing.TB) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := env.ui.Loop(ctx)
	assert.Equal(t, 0, env.p.Remaining(), "unused script")
	return err
}

func (env *tenv) apple(t testing.TB) *inventory.Dispenser {
	return env.m.Catalog.MustGet(t, appleIndex)
}

func (env *tenv) messages(title string) []string {
	ms := make([]string, 0, len(env.p.Notes))
	for _, n := range env.p.Notes {
		if n.Title == title {
			ms = append(ms, n.Message)
		}
	}
	return ms
}

func (env *tenv) assertStat(t testing.TB, expect ...string) {
	lines, err := env.m.Stat.Lines()
	require.NoError(t, err)
	for _, e := range expect {
		assert.Contains(t, lines, e)
	}
}

func TestScenarioPurchaseInTwoDeposits(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(appleIndex),
		types.MockNum(3),
		types.MockNum(200),
		types.MockNum(100),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, uint32(7), env.apple(t).Stock())
	assert.Equal(t, currency.Amount(800), env.m.Register.Balance())
	assert.Equal(t, []string{TitleShort, TitleComplete, TitleGoodbye}, env.p.Titles())
	assert.Equal(t, []string{"You still need to deposit 100 cents."}, env.messages(TitleShort))
	assert.Equal(t, []string{"Thank you for your purchase!"}, env.messages(TitleComplete))
	assert.Equal(t, []string{
		"Select a product or check the balance:",
		"There are 10 items available. How many would you like to purchase?",
		"Please deposit 300 cents",
		"Please deposit 100 cents",
		"Select a product or check the balance:",
	}, env.p.Prompts)
	assert.Equal(t, []State{
		StateSelectQuantity,
		StateCollectPayment,
		StateCollectPayment,
		StateCommit,
		StateSelectProduct,
		StateStop,
	}, env.states)
	assert.Nil(t, env.ui.Transaction())
	assert.Empty(t, env.errlogs)
	env.assertStat(t,
		`juicebox_sales_total{product="Apple Juice"} 1`,
		`juicebox_items_sold_total{product="Apple Juice"} 3`,
		`juicebox_revenue_total 300`,
		`juicebox_register_balance 800`,
	)
}

func TestScenarioUnderpaidCancel(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(appleIndex),
		types.MockNum(3),
		types.MockNum(150),
		types.MockNum(50),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, uint32(10), env.apple(t).Stock())
	assert.Equal(t, currency.Amount(500), env.m.Register.Balance())
	assert.Equal(t, []string{TitleShort, TitleShort, TitleCancelled, TitleGoodbye}, env.p.Titles())
	assert.Equal(t, []string{
		"You still need to deposit 150 cents.",
		"You still need to deposit 100 cents.",
	}, env.messages(TitleShort))
	assert.Equal(t, []string{"Transaction canceled. Returning 200 cents."}, env.messages(TitleCancelled))
	assert.Equal(t, types.SeverityWarning, env.p.Notes[2].Severity)
	assert.Empty(t, env.errlogs, "settle must not be called with insufficient funds")
	env.assertStat(t,
		`juicebox_cancel_total{reason="underpaid"} 1`,
		`juicebox_register_balance 500`,
	)
}

func TestScenarioOutOfStock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(mangoIndex),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{TitleOutStock, TitleGoodbye}, env.p.Titles())
	assert.Equal(t, "Sorry, the selected product is out of stock!", env.p.Notes[0].Message)
	assert.Equal(t, types.SeverityError, env.p.Notes[0].Severity)
	assert.Len(t, env.p.Prompts, 2, "no quantity prompt")
	assert.Equal(t, []State{StateSelectProduct, StateStop}, env.states)
	env.assertStat(t, `juicebox_out_of_stock_total{product="Mango Lassi"} 1`)
}

func TestScenarioNegativeQuantity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(appleIndex),
		types.MockNum(-5),
		types.MockNum(3),
		types.MockNum(300),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{TitleBadQty, TitleComplete, TitleGoodbye}, env.p.Titles())
	assert.Equal(t, "Please enter a positive number.", env.p.Notes[0].Message)
	assert.Equal(t, uint32(7), env.apple(t).Stock())
	assert.Equal(t, []State{
		StateSelectQuantity,
		StateSelectQuantity,
		StateCollectPayment,
		StateCommit,
		StateSelectProduct,
		StateStop,
	}, env.states)
}

func TestScenarioOverpayChange(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(appleIndex),
		types.MockNum(3),
		types.MockNum(500),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{"Thank you! Your change is 200 cents."}, env.messages(TitleComplete))
	assert.Equal(t, currency.Amount(800), env.m.Register.Balance())
	assert.Equal(t, uint32(7), env.apple(t).Stock())
}

func TestQuantityValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(appleIndex),
		types.MockNum(11),
		types.MockNumErr(types.ErrInvalidInput),
		types.MockNum(0),
		types.MockNum(10),
		types.MockNum(1000),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{TitleBadQty, TitleError, TitleBadQty, TitleComplete, TitleGoodbye}, env.p.Titles())
	assert.Equal(t, "Not enough stock available! Please enter a quantity up to 10", env.p.Notes[0].Message)
	assert.Equal(t, "Invalid input! Please enter a valid number.", env.p.Notes[1].Message)
	assert.Equal(t, uint32(0), env.apple(t).Stock())
	assert.Equal(t, currency.Amount(1500), env.m.Register.Balance())
}

func TestDepositValidationFree(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(appleIndex),
		types.MockNum(1),
		types.MockNum(0),
		types.MockNum(-3),
		types.MockNumErr(types.ErrInvalidInput),
		types.MockNum(50),
		types.MockNum(40),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{
		TitleBadPay, TitleBadPay, TitleBadPay,
		TitleShort, TitleShort,
		TitleCancelled, TitleGoodbye,
	}, env.p.Titles())
	assert.Equal(t, "Please enter a positive amount.", env.p.Notes[0].Message)
	assert.Equal(t, []string{"Transaction canceled. Returning 90 cents."}, env.messages(TitleCancelled))
	assert.Equal(t, currency.Amount(500), env.m.Register.Balance())
}

func TestUnboundedFullDeposit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, `ui { payment { max_attempts = 0 prompt_remaining = false } }`,
		types.MockPick(appleIndex),
		types.MockNum(3),
		types.MockNum(200),
		types.MockNum(100),
		types.MockNum(250),
		types.MockNum(300),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{"Please deposit at least 300 cents."}, env.messages(TitleAtLeast)[:1])
	assert.Len(t, env.messages(TitleAtLeast), 3)
	assert.Equal(t, []string{"Thank you for your purchase!"}, env.messages(TitleComplete))
	for _, p := range env.p.Prompts[2:6] {
		assert.Equal(t, "Please deposit 300 cents", p)
	}
	assert.Equal(t, currency.Amount(800), env.m.Register.Balance())
	assert.Empty(t, env.errlogs)
}

func TestUnboundedAccumulate(t *testing.T) {
	t.Parallel()

	script := []types.MockStep{types.MockPick(appleIndex), types.MockNum(1)}
	for i := 0; i < 9; i++ {
		script = append(script, types.MockNum(10))
	}
	script = append(script, types.MockNum(15), types.MockExit())
	env := newTestEnv(t, `ui { payment { max_attempts = 0 } }`, script...)
	require.NoError(t, env.run(t))
	assert.Len(t, env.messages(TitleShort), 9)
	assert.Equal(t, []string{"Thank you! Your change is 5 cents."}, env.messages(TitleComplete))
	assert.Equal(t, currency.Amount(600), env.m.Register.Balance())
}

func TestCancelConfirmed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(appleIndex),
		types.MockNum(3),
		types.MockNum(100),
		types.MockNumErr(types.ErrCancelled),
		types.MockConfirmAnswer(true),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, StateStop, env.ui.State())
	assert.Equal(t, []string{TitleShort, TitleCancelled, TitleGoodbye}, env.p.Titles())
	assert.Equal(t, []string{"Transaction canceled. Returning 100 cents."}, env.messages(TitleCancelled))
	assert.Equal(t, "Are you sure you want to exit?", env.p.Prompts[len(env.p.Prompts)-1])
	assert.Equal(t, uint32(10), env.apple(t).Stock())
	assert.Equal(t, currency.Amount(500), env.m.Register.Balance())
	env.assertStat(t, `juicebox_cancel_total{reason="user"} 1`)
}

func TestCancelDeclined(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(appleIndex),
		types.MockNumErr(types.ErrCancelled),
		types.MockConfirmAnswer(false),
		types.MockNum(3),
		types.MockNum(200),
		types.MockNumErr(types.ErrCancelled),
		types.MockStep{Kind: types.MockConfirm, Err: types.ErrCancelled},
		types.MockNum(100),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{TitleShort, TitleComplete, TitleGoodbye}, env.p.Titles())
	assert.Equal(t, uint32(7), env.apple(t).Stock())
	assert.Equal(t, currency.Amount(800), env.m.Register.Balance())
}

func TestCancelWithoutConfirm(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, `ui { confirm_exit = false }`,
		types.MockPick(1),
		types.MockNum(2),
		types.MockNum(100),
		types.MockNumErr(types.ErrCancelled),
		types.MockPick(1),
		types.MockNumErr(types.ErrCancelled),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{TitleShort, TitleCancelled, TitleCancelled, TitleGoodbye}, env.p.Titles())
	assert.Equal(t, []string{
		"Transaction canceled. Returning 100 cents.",
		"Transaction canceled. Returning 0 cents.",
	}, env.messages(TitleCancelled))
	assert.Equal(t, uint32(10), env.m.Catalog.MustGet(t, 1).Stock())
	env.assertStat(t, `juicebox_cancel_total{reason="user"} 2`)
}

func TestSelection(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, `money { unit = "kopeks" }`,
		types.MockBalance(),
		types.MockPick(9),
		types.MockPick(-1),
		types.MockStep{Kind: types.MockChoice, Err: types.ErrInvalidInput},
		types.MockStep{Kind: types.MockChoice, Choice: types.Choice{Kind: types.ChoiceInvalid}},
		types.MockStep{Kind: types.MockChoice, Err: types.ErrCancelled},
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{TitleBalance, TitleError, TitleError, TitleError, TitleError, TitleGoodbye}, env.p.Titles())
	assert.Equal(t, "The current balance in the register is: 500 kopeks.", env.p.Notes[0].Message)
	assert.Equal(t, "Invalid selection.", env.p.Notes[1].Message)
	assert.Equal(t, StateCheckBalance, env.states[0])
}

func TestCustomMessages(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, `ui { front { msg_goodbye = "bye, 100%% fresh" msg_change = "change=%s" } }`,
		types.MockPick(appleIndex),
		types.MockNum(1),
		types.MockNum(150),
		types.MockExit(),
	)
	require.NoError(t, env.run(t))
	assert.Equal(t, []string{"change=50 cents"}, env.messages(TitleComplete))
	assert.Equal(t, []string{"bye, 100%% fresh"}, env.messages(TitleGoodbye))
}

func TestLoopPresenterFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "",
		types.MockPick(appleIndex),
		types.MockNum(3),
	)
	err := env.run(t)
	require.Error(t, err)
	assert.Equal(t, io.EOF, errors.Cause(err))
	assert.Equal(t, StateCollectPayment, env.ui.State())
	assert.Equal(t, uint32(10), env.apple(t).Stock())
}

func TestLoopContextCancel(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "", types.MockExit())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := env.ui.Loop(ctx)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.Equal(t, 1, env.p.Remaining())
}

func TestCommitInvariant(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		quantity  uint32
		cost      currency.Amount
		deposited currency.Amount
		expect    error
	}
	cases := []Case{
		{"stock", 11, 1100, 1100, inventory.ErrInsufficientStock},
		{"underpaid", 1, 100, 99, nil},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, "")
			apple := env.apple(t)
			env.ui.tx = newTransaction(appleIndex, apple)
			env.ui.tx.Quantity = c.quantity
			env.ui.tx.Cost = c.cost
			env.ui.tx.Deposited = c.deposited
			env.ui.XXX_testSetState(StateCommit)

			err := env.run(t)
			require.Error(t, err)
			if c.expect != nil {
				assert.Equal(t, c.expect, errors.Cause(err))
			}
			assert.Equal(t, uint32(10), apple.Stock())
			assert.Equal(t, currency.Amount(500), env.m.Register.Balance())
			assert.Len(t, env.errlogs, 1)
		})
	}
}

func TestCommitRegisterOverflow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, `money { opening_balance = 4294967000 }
product "Gold Juice" { stock = 2 price = 1000 }`,
		types.MockPick(0),
		types.MockNum(1),
		types.MockNum(1000),
	)
	err := env.run(t)
	require.Error(t, err)
	assert.Equal(t, currency.ErrOverflow, errors.Cause(err))
	assert.Equal(t, uint32(2), env.m.Catalog.MustGet(t, 0).Stock())
	assert.Equal(t, currency.Amount(4294967000), env.m.Register.Balance())
	assert.Empty(t, env.messages(TitleComplete))
	assert.Len(t, env.errlogs, 1)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CollectPayment", StateCollectPayment.String())
	assert.Equal(t, "Stop", StateStop.String())
	assert.Equal(t, "State(99)", State(99).String())
}
