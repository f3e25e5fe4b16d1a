// Copyright 2025 The ClassMate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/esinocchi/ClassMate/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalContentItem serializes a ContentItem to bytes.
func MarshalContentItem(item *core.ContentItem) []byte {
	buf := make([]byte, core.ContentItemMUS.Size(*item))
	core.ContentItemMUS.Marshal(*item, buf)
	return buf
}

// UnmarshalContentItem deserializes a ContentItem from bytes.
func UnmarshalContentItem(data []byte) (*core.ContentItem, error) {
	item, _, err := core.ContentItemMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalCourse serializes a Course to bytes.
func MarshalCourse(course *core.Course) []byte {
	buf := make([]byte, core.CourseMUS.Size(*course))
	core.CourseMUS.Marshal(*course, buf)
	return buf
}

// UnmarshalCourse deserializes a Course from bytes.
func UnmarshalCourse(data []byte) (*core.Course, error) {
	course, _, err := core.CourseMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// MarshalCollectionMeta serializes a CollectionMeta to bytes.
func MarshalCollectionMeta(meta *core.CollectionMeta) []byte {
	buf := make([]byte, core.CollectionMetaMUS.Size(*meta))
	core.CollectionMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalCollectionMeta deserializes a CollectionMeta from bytes.
func UnmarshalCollectionMeta(data []byte) (*core.CollectionMeta, error) {
	meta, _, err := core.CollectionMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}
