package sector

import "hash/fnv"

// Catalogue is the fixed sector list used when no external lookup is
// configured. 顺序固定，哈希分配依赖它。
var Catalogue = []string{"科技", "新能源", "医药", "消费", "周期", "金融", "其他"}

// HashLookup assigns a stock code to a catalogue sector by hashing the
// code. It is a deterministic stand-in for a real industry lookup and is
// stable across runs and processes.
type HashLookup struct{}

// Sector returns the catalogue sector for a code.
func (HashLookup) Sector(code string) string {
	h := fnv.New32a()
	h.Write([]byte(code))
	return Catalogue[h.Sum32()%uint32(len(Catalogue))]
}
