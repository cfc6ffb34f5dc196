package huffman

// FrequencyTable holds the occurrence count of every byte value.
type FrequencyTable [256]uint64

// CountFrequencies scans src and tallies each byte value.
func CountFrequencies(src []byte) FrequencyTable {
	var freq FrequencyTable
	for _, b := range src {
		freq[b]++
	}
	return freq
}

// Total returns the number of bytes counted.
func (t *FrequencyTable) Total() uint64 {
	var total uint64
	for _, c := range t {
		total += c
	}
	return total
}

// Distinct returns the number of symbols with a nonzero count.
func (t *FrequencyTable) Distinct() int {
	n := 0
	for _, c := range t {
		if c > 0 {
			n++
		}
	}
	return n
}
