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


package core

import "errors"

// Domain errors
var (
	// ErrInvalidContentItem indicates a ContentItem failed validation.
	ErrInvalidContentItem = errors.New("invalid content item")

	// ErrEmptyItemID indicates a content item has no ID.
	ErrEmptyItemID = errors.New("item id required")

	// ErrInvalidItemType indicates an unknown ItemType value.
	ErrInvalidItemType = errors.New("invalid item type")

	// ErrRebuildInProgress indicates a reindex was requested while another
	// rebuild of the same collection is still running.
	ErrRebuildInProgress = errors.New("collection rebuild already in progress")

	// ErrUnknownCollection indicates a collection has never been indexed.
	ErrUnknownCollection = errors.New("unknown collection")
)
