package state_test

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/keypair"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	minerKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	bobKey   = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	carolKey = "9f332e3700d8fc2446eaf6d15034cf96e0c2745e40353deef032a5dbf1dfed93"
)

func ifErrFailNow(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func recoverKey(t *testing.T, hexKey string) keypair.Keypair {
	t.Helper()

	kp, err := keypair.Recover(hexKey)
	ifErrFailNow(t, err)

	return kp
}

func newState(t *testing.T, gen genesis.Genesis, ev state.EventHandler) (*state.State, keypair.Keypair) {
	t.Helper()

	miner := recoverKey(t, minerKey)

	st, err := state.New(state.Config{
		MinerAddress: miner.PublicKey,
		Genesis:      gen,
		EvHandler:    ev,
	})
	ifErrFailNow(t, err)

	return st, miner
}

// buildTx spends the sender's oldest unspent outputs to pay the amount plus
// the ledger fee, returning any change to the sender.
func buildTx(t *testing.T, st *state.State, from keypair.Keypair, to string, amount uint64) database.Tx {
	t.Helper()

	need := amount + st.FeePerTx()

	var inputs []database.TxInput
	var total uint64
	for _, out := range st.UTXOFor(from.PublicKey) {
		if total >= need {
			break
		}
		inputs = append(inputs, database.TxInputFromOutput(out))
		total += out.Amount()
	}
	if total < need {
		t.Fatalf("Should have funds to send %d, have %d", need, total)
	}

	outputs := []database.TxOutput{database.NewTxOutput(to, amount)}
	if change := total - need; change > 0 {
		outputs = append(outputs, database.NewTxOutput(from.PublicKey, change))
	}

	tx := database.NewTx(database.TxRegular, time.Now().UnixMilli(), inputs, outputs)
	ifErrFailNow(t, tx.SignInputs(from))

	return tx
}

func send(t *testing.T, st *state.State, from keypair.Keypair, to string, amount uint64) database.Tx {
	t.Helper()

	tx := buildTx(t, st, from, to, amount)
	if res := st.AddTransaction(tx); !res.Success {
		t.Fatalf("Should be able to add transaction : %s", res.Error())
	}

	return tx
}

// mineBlock mines the next template with a fee transaction paying the miner.
func mineBlock(t *testing.T, info database.BlockInfo, miner string) database.Block {
	t.Helper()

	fee := database.NewRewardTx(database.NewTxOutput(miner, info.Reward()))
	shell := database.NewBlockFromTemplate(info).WithTransaction(fee)

	block, err := shell.Mine(context.Background(), info.Difficulty, miner, nil)
	ifErrFailNow(t, err)

	return block
}

func mineNext(t *testing.T, st *state.State, miner string) database.Block {
	t.Helper()

	info, ok := st.NextBlockTemplate()
	if !ok {
		t.Fatal("Should get a block template.")
	}

	block := mineBlock(t, info, miner)
	if res := st.AddBlock(block); !res.Success {
		t.Fatalf("Should be able to add block : %s", res.Error())
	}

	return block
}

// =============================================================================

func TestGenesis(t *testing.T) {
	t.Log("Given the need to start a ledger.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen constructing the ledger.", testID)
		{
			st, miner := newState(t, genesis.Default(), nil)

			blocks := st.RetrieveBlocks()
			if len(blocks) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have one block, got %d.", failed, testID, len(blocks))
			}
			t.Logf("\t%s\tTest %d:\tShould have one block.", success, testID)

			if blocks[0].Miner() != miner.PublicKey {
				t.Fatalf("\t%s\tTest %d:\tShould have the genesis mined by the miner.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have the genesis mined by the miner.", success, testID)

			if res := st.IsValid(); !res.Success {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain : %s", failed, testID, res.Error())
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)

			if bal := st.BalanceOf(miner.PublicKey); bal != database.RewardAmount(1) {
				t.Fatalf("\t%s\tTest %d:\tShould credit the genesis reward, got %d.", failed, testID, bal)
			}
			t.Logf("\t%s\tTest %d:\tShould credit the genesis reward.", success, testID)

			if _, ok := st.NextBlockTemplate(); ok {
				t.Fatalf("\t%s\tTest %d:\tShould have nothing to mine.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have nothing to mine.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen constructing the ledger without a miner.", testID)
		{
			if _, err := state.New(state.Config{}); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould get an error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get an error.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen constructing the ledger with an unknown strategy.", testID)
		{
			gen := genesis.Default()
			gen.UTXOStrategy = "oldest"

			if _, err := state.New(state.Config{MinerAddress: "02aa", Genesis: gen}); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould get an error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get an error.", success, testID)
		}
	}
}

func TestAddTransaction(t *testing.T) {
	st, miner := newState(t, genesis.Default(), nil)
	bob := recoverKey(t, bobKey)

	genesisOut := st.UTXOFor(miner.PublicKey)[0]

	unknown := database.NewTxInput(miner.PublicKey, 10, strings.Repeat("a", 64))
	unknownTx := database.NewTx(database.TxRegular, time.Now().UnixMilli(), []database.TxInput{unknown}, []database.TxOutput{database.NewTxOutput(bob.PublicKey, 9)})
	ifErrFailNow(t, unknownTx.SignInputs(miner))

	unsignedTx := database.NewTx(database.TxRegular, time.Now().UnixMilli(), []database.TxInput{database.TxInputFromOutput(genesisOut)}, []database.TxOutput{database.NewTxOutput(bob.PublicKey, 9)})

	twice := []database.TxInput{database.TxInputFromOutput(genesisOut), database.TxInputFromOutput(genesisOut)}
	twiceTx := database.NewTx(database.TxRegular, time.Now().UnixMilli(), twice, []database.TxOutput{database.NewTxOutput(bob.PublicKey, 9)})
	ifErrFailNow(t, twiceTx.SignInputs(miner))

	bobSpends := database.NewTx(database.TxRegular, time.Now().UnixMilli(), []database.TxInput{database.NewTxInput(bob.PublicKey, genesisOut.Amount(), genesisOut.ProducingTxHash())}, []database.TxOutput{database.NewTxOutput(bob.PublicKey, 9)})
	ifErrFailNow(t, bobSpends.SignInputs(bob))

	feeTx := database.NewRewardTx(database.NewTxOutput(bob.PublicKey, 10))

	wrapOutputs := []database.TxOutput{
		database.NewTxOutput(bob.PublicKey, math.MaxUint64),
		database.NewTxOutput(miner.PublicKey, genesisOut.Amount()+1),
	}
	wrapTx := database.NewTx(database.TxRegular, time.Now().UnixMilli(), []database.TxInput{database.TxInputFromOutput(genesisOut)}, wrapOutputs)
	ifErrFailNow(t, wrapTx.SignInputs(miner))

	valid := buildTx(t, st, miner, bob.PublicKey, 100)

	type table struct {
		name    string
		tx      database.Tx
		code    validation.Code
		mempool int
	}

	tt := []table{
		{name: "nonexistent-output", tx: unknownTx, code: validation.SpentOrNonexistentTxo},
		{name: "someone-elses-output", tx: bobSpends, code: validation.SpentOrNonexistentTxo},
		{name: "same-output-twice", tx: twiceTx, code: validation.SpentOrNonexistentTxo},
		{name: "unsigned", tx: unsignedTx, code: validation.MissingSignatureOrReference},
		{name: "fee-transaction", tx: feeTx, code: validation.UnexpectedFeeTx},
		{name: "wrapping-outputs", tx: wrapTx, code: validation.AmountOverflow},
		{name: "valid", tx: valid, mempool: 1},
		{name: "pending-wallet", tx: valid, code: validation.WalletHasPendingTx, mempool: 1},
	}

	t.Log("Given the need to admit transactions to the mempool.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen submitting a %s transaction.", testID, tst.name)
			{
				res := st.AddTransaction(tst.tx)

				switch tst.code {
				case "":
					if !res.Success || res.Message != tst.tx.Hash() {
						t.Fatalf("\t%s\tTest %d:\tShould accept the transaction : %s", failed, testID, res.Error())
					}
					t.Logf("\t%s\tTest %d:\tShould accept the transaction.", success, testID)

				default:
					if res.Success || res.Code != tst.code {
						t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, res)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.code)
						t.Fatalf("\t%s\tTest %d:\tShould reject the transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the transaction with %s.", success, testID, tst.code)
				}

				if n := len(st.RetrieveMempool()); n != tst.mempool {
					t.Fatalf("\t%s\tTest %d:\tShould have %d pending transactions, got %d.", failed, testID, tst.mempool, n)
				}
				t.Logf("\t%s\tTest %d:\tShould have %d pending transactions.", success, testID, tst.mempool)
			}
		}

		testID := len(tt)
		t.Logf("\tTest %d:\tWhen the same wallet sends again before mining.", testID)
		{
			second := buildTx(t, st, miner, bob.PublicKey, 50)

			res := st.AddTransaction(second)
			if res.Success || res.Code != validation.WalletHasPendingTx {
				t.Fatalf("\t%s\tTest %d:\tShould reject the second transaction : %v", failed, testID, res)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the second transaction.", success, testID)

			lookup := st.FindTransaction(valid.Hash())
			if !lookup.Found || lookup.MempoolPosition != 0 || lookup.BlockIndex != -1 {
				t.Fatalf("\t%s\tTest %d:\tShould keep the first transaction pending : %+v", failed, testID, lookup)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the first transaction pending.", success, testID)

			if lookup := st.FindTransaction(second.Hash()); lookup.Found {
				t.Fatalf("\t%s\tTest %d:\tShould not find the rejected transaction.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not find the rejected transaction.", success, testID)
		}
	}
}

func TestAddBlock(t *testing.T) {
	var mu sync.Mutex
	var events []string
	ev := func(v string, args ...any) {
		if strings.HasPrefix(v, "viewer:") {
			mu.Lock()
			events = append(events, v)
			mu.Unlock()
		}
	}

	st, miner := newState(t, genesis.Default(), ev)
	bob := recoverKey(t, bobKey)

	t.Log("Given the need to append mined blocks to the ledger.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen no transactions are pending.", testID)
		{
			info := database.BlockInfo{
				Index:        1,
				PreviousHash: st.RetrieveLatestBlock().Hash(),
				Difficulty:   st.Difficulty(),
				FeePerTx:     st.FeePerTx(),
			}
			block := mineBlock(t, info, miner.PublicKey)

			res := st.AddBlock(block)
			if res.Success || res.Code != validation.NoNextBlockAvailable {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block : %v", failed, testID, res)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block with %s.", success, testID, res.Code)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining a pending transaction.", testID)
		{
			tx := send(t, st, miner, bob.PublicKey, 100)
			genesisHash := st.RetrieveLatestBlock().Hash()

			info, ok := st.NextBlockTemplate()
			if !ok {
				t.Fatalf("\t%s\tTest %d:\tShould get a template.", failed, testID)
			}
			if info.Index != 1 || info.PreviousHash != genesisHash || info.Difficulty != 2 || len(info.Transactions) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould get a template for block 1 : %+v", failed, testID, info)
			}
			if len(st.RetrieveMempool()) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the transaction in the mempool.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get a template for block 1.", success, testID)

			block := mineBlock(t, info, bob.PublicKey)

			res := st.AddBlock(block)
			if !res.Success || res.Message != block.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould accept the block : %s", failed, testID, res.Error())
			}
			t.Logf("\t%s\tTest %d:\tShould accept the block.", success, testID)

			if len(st.RetrieveMempool()) != 0 || len(st.RetrieveBlocks()) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould move the transaction from the mempool into the chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould move the transaction from the mempool into the chain.", success, testID)

			lookup := st.FindTransaction(tx.Hash())
			if !lookup.Found || lookup.BlockIndex != 1 || lookup.MempoolPosition != -1 {
				t.Fatalf("\t%s\tTest %d:\tShould find the transaction in block 1 : %+v", failed, testID, lookup)
			}
			t.Logf("\t%s\tTest %d:\tShould find the transaction in block 1.", success, testID)

			minerBal := database.RewardAmount(1) - 100 - st.FeePerTx()
			bobBal := 100 + database.RewardAmount(2) + st.FeePerTx()
			if got := st.BalanceOf(miner.PublicKey); got != minerBal {
				t.Fatalf("\t%s\tTest %d:\tShould get miner balance %d, got %d.", failed, testID, minerBal, got)
			}
			if got := st.BalanceOf(bob.PublicKey); got != bobBal {
				t.Fatalf("\t%s\tTest %d:\tShould get bob balance %d, got %d.", failed, testID, bobBal, got)
			}
			t.Logf("\t%s\tTest %d:\tShould get the right balances.", success, testID)

			mu.Lock()
			n := len(events)
			mu.Unlock()
			if n != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould emit one block event, got %d.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould emit one block event.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the block is submitted twice.", testID)
		{
			send(t, st, miner, bob.PublicKey, 10)

			res := st.AddBlock(st.RetrieveLatestBlock())
			if res.Success || res.Code != validation.InvalidIndex {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block : %v", failed, testID, res)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block with %s.", success, testID, res.Code)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the block holds a transaction that is not pending.", testID)
		{
			stray := buildTx(t, st, bob, miner.PublicKey, 5)

			info, ok := st.NextBlockTemplate()
			if !ok {
				t.Fatalf("\t%s\tTest %d:\tShould get a template.", failed, testID)
			}
			info.Transactions = []database.Tx{stray}

			res := st.AddBlock(mineBlock(t, info, miner.PublicKey))
			if res.Success || res.Code != validation.MempoolMismatch {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block : %v", failed, testID, res)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block with %s.", success, testID, res.Code)

			if len(st.RetrieveMempool()) != 1 || len(st.RetrieveBlocks()) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the ledger unchanged.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the ledger unchanged.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the fee transaction outputs wrap around.", testID)
		{
			info, ok := st.NextBlockTemplate()
			if !ok {
				t.Fatalf("\t%s\tTest %d:\tShould get a template.", failed, testID)
			}

			outputs := []database.TxOutput{
				database.NewTxOutput(miner.PublicKey, math.MaxUint64),
				database.NewTxOutput(miner.PublicKey, info.Reward()+1),
			}
			fee := database.NewTx(database.TxFee, time.Now().UnixMilli(), nil, outputs)
			block, err := database.NewBlockFromTemplate(info).WithTransaction(fee).Mine(context.Background(), info.Difficulty, miner.PublicKey, nil)
			ifErrFailNow(t, err)

			before := st.BalanceOf(miner.PublicKey)

			res := st.AddBlock(block)
			if res.Success || res.Code != validation.InvalidTransactionsInBlock {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block : %v", failed, testID, res)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block with %s.", success, testID, res.Code)

			if got := st.BalanceOf(miner.PublicKey); got != before || len(st.RetrieveBlocks()) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the ledger unchanged, balance %d, exp %d.", failed, testID, got, before)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the ledger unchanged.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the fee transaction claims one more than allowed.", testID)
		{
			info, ok := st.NextBlockTemplate()
			if !ok {
				t.Fatalf("\t%s\tTest %d:\tShould get a template.", failed, testID)
			}

			fee := database.NewRewardTx(database.NewTxOutput(miner.PublicKey, info.Reward()+1))
			block, err := database.NewBlockFromTemplate(info).WithTransaction(fee).Mine(context.Background(), info.Difficulty, miner.PublicKey, nil)
			ifErrFailNow(t, err)

			res := st.AddBlock(block)
			if res.Success || res.Code != validation.InvalidTransactionsInBlock {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block : %v", failed, testID, res)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block with %s.", success, testID, res.Code)

			mineNext(t, st, miner.PublicKey)
			t.Logf("\t%s\tTest %d:\tShould accept the block claiming exactly the reward and fees.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen validating the chain twice.", testID)
		{
			first := st.IsValid()
			second := st.IsValid()
			if !first.Success || first != second {
				t.Fatalf("\t%s\tTest %d:\tShould get the same valid result : %v %v", failed, testID, first, second)
			}
			t.Logf("\t%s\tTest %d:\tShould get the same valid result.", success, testID)
		}
	}
}

func TestStaleTip(t *testing.T) {
	st, miner := newState(t, genesis.Default(), nil)
	bob := recoverKey(t, bobKey)

	t.Log("Given the need to reject blocks mined on a stale tip.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the block extends the block two back from the tip.", testID)
		{
			for i := 0; i < 2; i++ {
				send(t, st, miner, bob.PublicKey, 10)
				mineNext(t, st, miner.PublicKey)
			}

			send(t, st, miner, bob.PublicKey, 10)

			info, ok := st.NextBlockTemplate()
			if !ok {
				t.Fatalf("\t%s\tTest %d:\tShould get a template.", failed, testID)
			}
			blocks := st.RetrieveBlocks()
			info.PreviousHash = blocks[len(blocks)-2].Hash()

			res := st.AddBlock(mineBlock(t, info, miner.PublicKey))
			if res.Success || res.Code != validation.InvalidPreviousHash {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block : %v", failed, testID, res)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block with %s.", success, testID, res.Code)

			if len(st.RetrieveBlocks()) != 3 || len(st.RetrieveMempool()) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the ledger unchanged.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the ledger unchanged.", success, testID)
		}
	}
}

func TestDifficulty(t *testing.T) {
	st, miner := newState(t, genesis.Default(), nil)
	bob := recoverKey(t, bobKey)

	t.Log("Given the need to raise the difficulty as the chain grows.")
	{
		for length := 1; length <= 10; length++ {
			exp := 2
			if length > 5 {
				exp = 3
			}

			t.Logf("\tTest %d:\tWhen the chain holds %d blocks.", length, length)
			{
				if got := len(st.RetrieveBlocks()); got != length {
					t.Fatalf("\t%s\tTest %d:\tShould have %d blocks, got %d.", failed, length, length, got)
				}

				if got := st.Difficulty(); got != exp {
					t.Fatalf("\t%s\tTest %d:\tShould get difficulty %d, got %d.", failed, length, exp, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get difficulty %d.", success, length, exp)
			}

			if length < 10 {
				send(t, st, miner, bob.PublicKey, 1)
				block := mineNext(t, st, miner.PublicKey)

				if !strings.HasPrefix(block.Hash(), strings.Repeat("0", exp)) {
					t.Fatalf("\t%s\tTest %d:\tShould mine at difficulty %d : %s", failed, length, exp, block.Hash())
				}
			}
		}

		testID := 11
		t.Logf("\tTest %d:\tWhen validating a chain that crossed a difficulty step.", testID)
		{
			if res := st.IsValid(); !res.Success {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain : %s", failed, testID, res.Error())
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}
	}
}

func TestTxPerBlock(t *testing.T) {
	gen := genesis.Default()
	gen.TxPerBlock = 1
	gen.UTXOStrategy = "lineage"

	st, miner := newState(t, gen, nil)
	bob := recoverKey(t, bobKey)
	carol := recoverKey(t, carolKey)

	t.Log("Given the need to bound the transactions in a block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen two wallets have pending transactions.", testID)
		{
			send(t, st, miner, bob.PublicKey, 50)
			mineNext(t, st, miner.PublicKey)

			first := send(t, st, miner, carol.PublicKey, 20)
			second := send(t, st, bob, carol.PublicKey, 10)

			info, ok := st.NextBlockTemplate()
			if !ok || len(info.Transactions) != 1 || info.Transactions[0].Hash() != first.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould take only the head of the mempool.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould take only the head of the mempool.", success, testID)

			mineNext(t, st, miner.PublicKey)

			pending := st.RetrieveMempool()
			if len(pending) != 1 || pending[0].Hash() != second.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould leave the second transaction pending.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the second transaction pending.", success, testID)

			mineNext(t, st, miner.PublicKey)

			if got := st.BalanceOf(carol.PublicKey); got != 30 {
				t.Fatalf("\t%s\tTest %d:\tShould get carol balance 30, got %d.", failed, testID, got)
			}
			if got := st.BalanceOf(bob.PublicKey); got != 50-10-st.FeePerTx() {
				t.Fatalf("\t%s\tTest %d:\tShould get bob balance %d, got %d.", failed, testID, 50-10-st.FeePerTx(), got)
			}
			t.Logf("\t%s\tTest %d:\tShould get the right balances.", success, testID)

			if res := st.IsValid(); !res.Success {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain : %s", failed, testID, res.Error())
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}
	}
}
