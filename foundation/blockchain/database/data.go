package database

import "fmt"

// TxOutputData is the wire representation of an output.
type TxOutputData struct {
	ToAddress       string `json:"to_address" validate:"required"`
	Amount          uint64 `json:"amount"`
	ProducingTxHash string `json:"producing_tx_hash,omitempty"`
}

// TxInputData is the wire representation of an input.
type TxInputData struct {
	FromAddress    string `json:"from_address" validate:"required"`
	Amount         uint64 `json:"amount"`
	Signature      string `json:"signature"`
	PreviousTxHash string `json:"previous_tx_hash"`
}

// TxData is the wire representation of a transaction. The hash is carried
// as sent so a mismatch with the content can be detected.
type TxData struct {
	Type      string         `json:"type" validate:"required,oneof=regular fee"`
	Timestamp int64          `json:"timestamp"`
	Hash      string         `json:"hash" validate:"required"`
	Inputs    []TxInputData  `json:"inputs,omitempty" validate:"dive"`
	Outputs   []TxOutputData `json:"outputs" validate:"dive"`
}

// BlockData is the wire representation of a block.
type BlockData struct {
	Index        uint64   `json:"index"`
	Timestamp    int64    `json:"timestamp"`
	Hash         string   `json:"hash" validate:"required"`
	PreviousHash string   `json:"previous_hash"`
	Transactions []TxData `json:"transactions" validate:"dive"`
	Nonce        uint64   `json:"nonce"`
	Miner        string   `json:"miner"`
}

// BlockInfoData is the wire representation of a mining template.
type BlockInfoData struct {
	Index         uint64   `json:"index"`
	PreviousHash  string   `json:"previous_hash"`
	Difficulty    int      `json:"difficulty"`
	FeePerTx      uint64   `json:"fee_per_tx"`
	MaxDifficulty int      `json:"max_difficulty"`
	Transactions  []TxData `json:"transactions"`
}

// =============================================================================

// NewTxOutputData constructs the value to send over the wire.
func NewTxOutputData(out TxOutput) TxOutputData {
	return TxOutputData{
		ToAddress:       out.toAddress,
		Amount:          out.amount,
		ProducingTxHash: out.producingTxHash,
	}
}

// ToTxOutput converts wire data into an output.
func ToTxOutput(d TxOutputData) TxOutput {
	return TxOutput{
		toAddress:       d.ToAddress,
		amount:          d.Amount,
		producingTxHash: d.ProducingTxHash,
	}
}

// NewTxInputData constructs the value to send over the wire.
func NewTxInputData(in TxInput) TxInputData {
	return TxInputData{
		FromAddress:    in.fromAddress,
		Amount:         in.amount,
		Signature:      in.signature,
		PreviousTxHash: in.previousTxHash,
	}
}

// ToTxInput converts wire data into an input.
func ToTxInput(d TxInputData) TxInput {
	return TxInput{
		fromAddress:    d.FromAddress,
		amount:         d.Amount,
		signature:      d.Signature,
		previousTxHash: d.PreviousTxHash,
	}
}

// NewTxData constructs the value to send over the wire.
func NewTxData(tx Tx) TxData {
	d := TxData{
		Type:      string(tx.txType),
		Timestamp: tx.timestamp,
		Hash:      tx.hash,
		Outputs:   make([]TxOutputData, len(tx.outputs)),
	}

	if len(tx.inputs) > 0 {
		d.Inputs = make([]TxInputData, len(tx.inputs))
		for i, in := range tx.inputs {
			d.Inputs[i] = NewTxInputData(in)
		}
	}

	for i, out := range tx.outputs {
		d.Outputs[i] = NewTxOutputData(out)
	}

	return d
}

// ToTx converts wire data into a transaction. The stored hash is kept as
// sent and is not recomputed.
func ToTx(d TxData) (Tx, error) {
	txType, err := ParseTxType(d.Type)
	if err != nil {
		return Tx{}, err
	}

	tx := Tx{
		txType:    txType,
		timestamp: d.Timestamp,
		hash:      d.Hash,
		outputs:   make([]TxOutput, len(d.Outputs)),
	}

	if len(d.Inputs) > 0 {
		tx.inputs = make([]TxInput, len(d.Inputs))
		for i, in := range d.Inputs {
			tx.inputs[i] = ToTxInput(in)
		}
	}

	for i, out := range d.Outputs {
		tx.outputs[i] = ToTxOutput(out)
	}

	return tx, nil
}

// NewBlockData constructs the value to send over the wire.
func NewBlockData(b Block) BlockData {
	d := BlockData{
		Index:        b.index,
		Timestamp:    b.timestamp,
		Hash:         b.hash,
		PreviousHash: b.previousHash,
		Transactions: make([]TxData, len(b.transactions)),
		Nonce:        b.nonce,
		Miner:        b.miner,
	}

	for i, tx := range b.transactions {
		d.Transactions[i] = NewTxData(tx)
	}

	return d
}

// ToBlock converts wire data into a block. The stored hash is kept as sent.
func ToBlock(d BlockData) (Block, error) {
	b := Block{
		index:        d.Index,
		timestamp:    d.Timestamp,
		hash:         d.Hash,
		previousHash: d.PreviousHash,
		transactions: make([]Tx, len(d.Transactions)),
		nonce:        d.Nonce,
		miner:        d.Miner,
	}

	for i, td := range d.Transactions {
		tx, err := ToTx(td)
		if err != nil {
			return Block{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		b.transactions[i] = tx
	}

	return b, nil
}

// NewBlockInfoData constructs the value to send over the wire.
func NewBlockInfoData(bi BlockInfo) BlockInfoData {
	d := BlockInfoData{
		Index:         bi.Index,
		PreviousHash:  bi.PreviousHash,
		Difficulty:    bi.Difficulty,
		FeePerTx:      bi.FeePerTx,
		MaxDifficulty: bi.MaxDifficulty,
		Transactions:  make([]TxData, len(bi.Transactions)),
	}

	for i, tx := range bi.Transactions {
		d.Transactions[i] = NewTxData(tx)
	}

	return d
}

// ToBlockInfo converts wire data into a mining template.
func ToBlockInfo(d BlockInfoData) (BlockInfo, error) {
	bi := BlockInfo{
		Index:         d.Index,
		PreviousHash:  d.PreviousHash,
		Difficulty:    d.Difficulty,
		FeePerTx:      d.FeePerTx,
		MaxDifficulty: d.MaxDifficulty,
		Transactions:  make([]Tx, len(d.Transactions)),
	}

	for i, td := range d.Transactions {
		tx, err := ToTx(td)
		if err != nil {
			return BlockInfo{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		bi.Transactions[i] = tx
	}

	return bi, nil
}
