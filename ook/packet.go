package ook

import (
	"fmt"
	"strings"
)

// Packet is one decoded frame: the data bits (packed MSB-first into
// bytes), the duplicated check bits used as the wire format's only
// integrity mechanism, and the sync/pretty-printing metadata spec.md
// §3 and §6 require.
type Packet struct {
	Data       []byte
	BitCount   int
	SyncCount  int
	ValidCheck bool
	Pretty     string
	PhyPretty  string
}

// newPacket builds a Packet from the data/check bit buffers and sync
// count gathered by a Demodulator read, computing ValidCheck and both
// pretty-printed summaries per spec.md §4.3.
func newPacket(syncCount int, data, check *BitBuffer) Packet {
	valid := validCheck(data, check)
	return Packet{
		Data:       data.Bytes(),
		BitCount:   data.Len(),
		SyncCount:  syncCount,
		ValidCheck: valid,
		Pretty:     prettyString(syncCount, data, valid),
		PhyPretty:  phyPrettyString(syncCount, data, check),
	}
}

func validCheck(data, check *BitBuffer) bool {
	if data.Len() != check.Len() {
		return false
	}
	for i := 0; i < data.Len(); i++ {
		if i >= check.Len() || data.At(i) != check.At(i) {
			return false
		}
	}
	return true
}

// prettyString renders "<NNs>S <NNNb>B <✓|✗> <hex bytes>", e.g.
// "20S 016B ✓ a5 5a".
func prettyString(syncCount int, data *BitBuffer, valid bool) string {
	mark := "✗"
	if valid {
		mark = "✓"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%02dS %03dB %s", syncCount, data.Len(), mark)
	for _, by := range data.Bytes() {
		fmt.Fprintf(&b, " %02x", by)
	}
	return b.String()
}

// phyPrettyString renders "<NNs>SP <per-bit chars, space every 4>".
// Per bit i the character is '1'/'0' if data and check agree, 'X' if
// they differ, 'D' if only check extends past data, 'C' if only data
// extends past check.
func phyPrettyString(syncCount int, data, check *BitBuffer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02dSP ", syncCount)

	max := data.Len()
	if check.Len() > max {
		max = check.Len()
	}
	for i := 0; i < max; i++ {
		switch {
		case i >= data.Len():
			b.WriteByte('D')
		case i >= check.Len():
			b.WriteByte('C')
		case data.At(i) != check.At(i):
			b.WriteByte('X')
		case data.At(i):
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
		if (i+1)%4 == 0 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
