// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapsJANrsYbHrCV8DNwSoΔyNAΞΞ   = ord.NewMapSer[string, int](ord.String, varint.Int)
	ptrYkeQoRkL8v9tCLGEn40BrQΞΞ   = ord.NewPtrSer[time.Time](raw.TimeUnix)
	sliceWH1azioyy5ΣVssX7N8ItvwΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var ItemTypeMUS = itemTypeMUS{}

type itemTypeMUS struct{}

func (s itemTypeMUS) Marshal(v ItemType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s itemTypeMUS) Unmarshal(bs []byte) (v ItemType, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ItemType(tmp)
	return
}

func (s itemTypeMUS) Size(v ItemType) (size int) {
	return varint.Int.Size(int(v))
}

func (s itemTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var ContentItemMUS = contentItemMUS{}

type contentItemMUS struct{}

func (s contentItemMUS) Marshal(v ContentItem, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int64.Marshal(v.CourseId, bs[n:])
	n += ItemTypeMUS.Marshal(v.Type, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Body, bs[n:])
	n += ord.String.Marshal(v.AttachmentText, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
	n += ptrYkeQoRkL8v9tCLGEn40BrQΞΞ.Marshal(v.DueAt, bs[n:])
	n += ptrYkeQoRkL8v9tCLGEn40BrQΞΞ.Marshal(v.EventAt, bs[n:])
	return n + ord.String.Marshal(v.SourceURL, bs[n:])
}

func (s contentItemMUS) Unmarshal(bs []byte) (v ContentItem, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.CourseId, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type, n1, err = ItemTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Body, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.AttachmentText, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DueAt, n1, err = ptrYkeQoRkL8v9tCLGEn40BrQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EventAt, n1, err = ptrYkeQoRkL8v9tCLGEn40BrQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceURL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s contentItemMUS) Size(v ContentItem) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int64.Size(v.CourseId)
	size += ItemTypeMUS.Size(v.Type)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Body)
	size += ord.String.Size(v.AttachmentText)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	size += raw.TimeUnixMicro.Size(v.UpdatedAt)
	size += ptrYkeQoRkL8v9tCLGEn40BrQΞΞ.Size(v.DueAt)
	size += ptrYkeQoRkL8v9tCLGEn40BrQΞΞ.Size(v.EventAt)
	return size + ord.String.Size(v.SourceURL)
}

func (s contentItemMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ItemTypeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ptrYkeQoRkL8v9tCLGEn40BrQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ptrYkeQoRkL8v9tCLGEn40BrQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.ItemId, bs[n:])
	n += varint.Int.Marshal(v.Ordinal, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int.Marshal(v.TokenCount, bs[n:])
	n += sliceWH1azioyy5ΣVssX7N8ItvwΞΞ.Marshal(v.Vector, bs[n:])
	return n + mapsJANrsYbHrCV8DNwSoΔyNAΞΞ.Marshal(v.TermFreqs, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.ItemId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TokenCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceWH1azioyy5ΣVssX7N8ItvwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TermFreqs, n1, err = mapsJANrsYbHrCV8DNwSoΔyNAΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.ItemId)
	size += varint.Int.Size(v.Ordinal)
	size += ord.String.Size(v.Text)
	size += varint.Int.Size(v.TokenCount)
	size += sliceWH1azioyy5ΣVssX7N8ItvwΞΞ.Size(v.Vector)
	return size + mapsJANrsYbHrCV8DNwSoΔyNAΞΞ.Size(v.TermFreqs)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceWH1azioyy5ΣVssX7N8ItvwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapsJANrsYbHrCV8DNwSoΔyNAΞΞ.Skip(bs[n:])
	n += n1
	return
}

var CourseMUS = courseMUS{}

type courseMUS struct{}

func (s courseMUS) Marshal(v Course, bs []byte) (n int) {
	n = varint.Int64.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	return n + ord.String.Marshal(v.Code, bs[n:])
}

func (s courseMUS) Unmarshal(bs []byte) (v Course, n int, err error) {
	v.Id, n, err = varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Code, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s courseMUS) Size(v Course) (size int) {
	size = varint.Int64.Size(v.Id)
	size += ord.String.Size(v.Name)
	return size + ord.String.Size(v.Code)
}

func (s courseMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int64.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var CollectionMetaMUS = collectionMetaMUS{}

type collectionMetaMUS struct{}

func (s collectionMetaMUS) Marshal(v CollectionMeta, bs []byte) (n int) {
	n = ord.String.Marshal(v.CollectionId, bs)
	n += varint.Uint64.Marshal(v.Version, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.SavedAt, bs[n:])
}

func (s collectionMetaMUS) Unmarshal(bs []byte) (v CollectionMeta, n int, err error) {
	v.CollectionId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Version, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SavedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s collectionMetaMUS) Size(v CollectionMeta) (size int) {
	size = ord.String.Size(v.CollectionId)
	size += varint.Uint64.Size(v.Version)
	return size + raw.TimeUnixMicro.Size(v.SavedAt)
}

func (s collectionMetaMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
