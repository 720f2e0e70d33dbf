package service

import (
	"unicode/utf8"

	"match-service/internal/dataset"
)

// Block — индексы записей с одинаковым ключом, в порядке датасета.
type Block struct {
	Key     string
	Indices []int
}

// Partition — блоки в порядке первого появления ключа.
type Partition struct {
	Blocks []Block
	byKey  map[string]int
}

func newPartition() *Partition {
	return &Partition{byKey: make(map[string]int)}
}

func (p *Partition) add(key string, idx int) {
	i, ok := p.byKey[key]
	if !ok {
		i = len(p.Blocks)
		p.byKey[key] = i
		p.Blocks = append(p.Blocks, Block{Key: key})
	}
	p.Blocks[i].Indices = append(p.Blocks[i].Indices, idx)
}

// Get — блок по ключу.
func (p *Partition) Get(key string) (Block, bool) {
	i, ok := p.byKey[key]
	if !ok {
		return Block{}, false
	}
	return p.Blocks[i], true
}

// Len — число блоков.
func (p *Partition) Len() int { return len(p.Blocks) }

// PartitionFirstChar блокирует по первому символу поля. Null и пустые
// значения попадают в один общий блок с ключом "" (он тоже сравнивается).
// field == "" — блокировка выключена: один блок на весь датасет.
func PartitionFirstChar(ds *dataset.Dataset, field string) *Partition {
	p := newPartition()
	for _, r := range ds.Records() {
		key := ""
		if field != "" {
			key = firstChar(r.Text(field))
		}
		p.add(key, r.Index)
	}
	return p
}

// PartitionExact блокирует по точному значению поля (с учётом типа).
// Записи с Null в поле блокировки не попадают ни в один блок.
func PartitionExact(ds *dataset.Dataset, field string) *Partition {
	p := newPartition()
	for _, r := range ds.Records() {
		c := r.Get(field)
		if c.IsNull() {
			continue
		}
		p.add(c.Key(), r.Index)
	}
	return p
}

func firstChar(s string) string {
	if s == "" {
		return ""
	}
	_, n := utf8.DecodeRuneInString(s)
	return s[:n]
}
