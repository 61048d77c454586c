package store

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"doto/internal/model"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

const snapshotMagic = "DOTO-SNAPSHOT"

var ErrSnapshotChecksum = errors.New("snapshot checksum mismatch")

// WriteSnapshot writes a header line ("DOTO-SNAPSHOT 1 blake3:<hex>") followed by the
// zstd-compressed CBOR encoding of st. The digest covers the uncompressed CBOR payload.
func WriteSnapshot(w io.Writer, st model.State) error {
	payload, err := MarshalCBOR(st)
	if err != nil {
		return err
	}
	sum := blake3.Sum256(payload)
	if _, err := fmt.Fprintf(w, "%s 1 blake3:%s\n", snapshotMagic, hex.EncodeToString(sum[:])); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := enc.Write(payload); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func ReadSnapshot(r io.Reader) (model.State, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil {
		return model.State{}, fmt.Errorf("read snapshot header: %w", err)
	}
	fields := strings.Fields(header)
	if len(fields) != 3 || fields[0] != snapshotMagic || fields[1] != "1" || !strings.HasPrefix(fields[2], "blake3:") {
		return model.State{}, fmt.Errorf("%w: bad snapshot header %q", ErrCorruptState, strings.TrimSpace(header))
	}
	want, err := hex.DecodeString(strings.TrimPrefix(fields[2], "blake3:"))
	if err != nil {
		return model.State{}, fmt.Errorf("%w: bad snapshot digest: %v", ErrCorruptState, err)
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		return model.State{}, err
	}
	defer dec.Close()
	payload, err := io.ReadAll(dec)
	if err != nil {
		return model.State{}, fmt.Errorf("%w: decompress: %v", ErrCorruptState, err)
	}

	got := blake3.Sum256(payload)
	if hex.EncodeToString(got[:]) != hex.EncodeToString(want) {
		return model.State{}, ErrSnapshotChecksum
	}
	return DecodeState(payload, "cbor")
}
