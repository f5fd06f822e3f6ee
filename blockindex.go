package beg

import (
	"fmt"
	"io"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

const blockIndexSchema = `
CREATE TABLE IF NOT EXISTS Block (
	block_id INTEGER PRIMARY KEY,
	chromosome TEXT NOT NULL,
	n_rows INTEGER NOT NULL,
	n_samples INTEGER NOT NULL,
	phased INTEGER NOT NULL,
	compression INTEGER NOT NULL,
	raw_size INTEGER NOT NULL,
	payload_size INTEGER NOT NULL,
	file_start_position INTEGER NOT NULL,
	checksum INTEGER NOT NULL,
	creation_time INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS RowOrder (
	block_id INTEGER NOT NULL,
	stored_position INTEGER NOT NULL,
	input_index INTEGER NOT NULL,
	encoder_index INTEGER NOT NULL,
	PRIMARY KEY (block_id, stored_position)
);
`

// BlockIndex is a SQLite sidecar describing where each encoded block lives
// in a payload file and how to undo its row switching.
type BlockIndex struct {
	DB *sqlx.DB
}

// BlockRecord conforms to the rows of the table "Block" and can be easily
// parsed with sqlx.
type BlockRecord struct {
	BlockID           int         `db:"block_id"`
	Chromosome        string      `db:"chromosome"`
	NRows             int         `db:"n_rows"`
	NSamples          int         `db:"n_samples"`
	Phased            bool        `db:"phased"`
	Compression       Compression `db:"compression"`
	RawSize           int         `db:"raw_size"`
	PayloadSize       int         `db:"payload_size"`
	FileStartPosition int64       `db:"file_start_position"`

	// Checksum holds the bits of the uint64 seahash; SQLite integers are
	// signed.
	Checksum     int64 `db:"checksum"`
	CreationTime Time  `db:"creation_time"`
}

// RowOrder conforms to the rows of the table "RowOrder".
type RowOrder struct {
	BlockID        int   `db:"block_id"`
	StoredPosition int   `db:"stored_position"`
	InputIndex     int   `db:"input_index"`
	EncoderIndex   uint8 `db:"encoder_index"`
}

// CreateBlockIndex opens the index at path, creating the file and its tables
// if needed.
func CreateBlockIndex(path string) (*BlockIndex, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if _, err := db.Exec(blockIndexSchema); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}
	return &BlockIndex{DB: db}, nil
}

// OpenBlockIndex opens an existing index at path.
func OpenBlockIndex(path string) (*BlockIndex, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return &BlockIndex{DB: db}, nil
}

func (b *BlockIndex) Close() error {
	return b.DB.Close()
}

// Put records eb under blockID, with its payload stored at offset of the
// payload file.
func (b *BlockIndex) Put(blockID int, offset int64, eb *EncodedBlock) error {
	rec := BlockRecord{
		BlockID:           blockID,
		Chromosome:        eb.Chromosome,
		NRows:             len(eb.Order),
		NSamples:          eb.Samples,
		Phased:            eb.Phased,
		Compression:       eb.Compression,
		RawSize:           eb.RawSize,
		PayloadSize:       len(eb.Payload),
		FileStartPosition: offset,
		Checksum:          int64(eb.Checksum),
		CreationTime:      Time(time.Now()),
	}

	tx, err := b.DB.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO Block (block_id, chromosome, n_rows, n_samples, phased, compression,
		raw_size, payload_size, file_start_position, checksum, creation_time)
		VALUES (:block_id, :chromosome, :n_rows, :n_samples, :phased, :compression,
		:raw_size, :payload_size, :file_start_position, :checksum, :creation_time)`, rec); err != nil {
		return pfx.Err(err)
	}

	stmt, err := tx.Preparex("INSERT INTO RowOrder (block_id, stored_position, input_index, encoder_index) VALUES (?, ?, ?, ?)")
	if err != nil {
		return pfx.Err(err)
	}
	defer stmt.Close()
	for i, index := range eb.Order {
		if _, err := stmt.Exec(blockID, i, index, eb.EncoderIndexes[i]); err != nil {
			return pfx.Err(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Blocks returns every block record ordered by block ID.
func (b *BlockIndex) Blocks() ([]BlockRecord, error) {
	var recs []BlockRecord
	if err := b.DB.Select(&recs, "SELECT * FROM Block ORDER BY block_id ASC"); err != nil {
		return nil, pfx.Err(err)
	}
	return recs, nil
}

// Order returns the stored row order of a block.
func (b *BlockIndex) Order(blockID int) ([]RowOrder, error) {
	var order []RowOrder
	if err := b.DB.Select(&order, "SELECT * FROM RowOrder WHERE block_id = ? ORDER BY stored_position ASC", blockID); err != nil {
		return nil, pfx.Err(err)
	}
	return order, nil
}

// Load reads the payload of rec from r and rebuilds the encoded block.
func (b *BlockIndex) Load(r io.ReaderAt, rec BlockRecord) (*EncodedBlock, error) {
	order, err := b.Order(rec.BlockID)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(order) != rec.NRows {
		return nil, pfx.Err(fmt.Errorf("block %d lists %d rows but %d are ordered", rec.BlockID, rec.NRows, len(order)))
	}

	eb := &EncodedBlock{
		Chromosome:     rec.Chromosome,
		Samples:        rec.NSamples,
		Phased:         rec.Phased,
		Order:          make([]int, len(order)),
		EncoderIndexes: make([]uint8, len(order)),
		Compression:    rec.Compression,
		RawSize:        rec.RawSize,
		Payload:        make([]byte, rec.PayloadSize),
		Checksum:       uint64(rec.Checksum),
	}
	for i, o := range order {
		eb.Order[i] = o.InputIndex
		eb.EncoderIndexes[i] = o.EncoderIndex
	}

	if _, err := r.ReadAt(eb.Payload, rec.FileStartPosition); err != nil {
		return nil, pfx.Err(err)
	}
	return eb, nil
}
