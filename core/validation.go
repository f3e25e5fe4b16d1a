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

import "fmt"

// ValidateContentItem validates a ContentItem according to domain rules.
//
// Validation rules:
//   - Id must be set
//   - Type must be a known ItemType
//
// NOT validated:
//   - Body and AttachmentText (an item with no indexable text is skipped
//     during ingestion, not rejected)
//   - Timestamps (Canvas data is occasionally missing or future-dated;
//     filters handle that gracefully)
func ValidateContentItem(item *ContentItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidContentItem)
	}

	if item.Id == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, ErrEmptyItemID)
	}

	if err := ValidateItemType(item.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, err)
	}

	return nil
}

// ValidateItemType validates that an ItemType has a known value.
func ValidateItemType(t ItemType) error {
	if _, ok := itemTypeNames[t]; !ok {
		return fmt.Errorf("%w: value %d", ErrInvalidItemType, t)
	}
	return nil
}

// IndexableText returns the full text an item contributes to the index:
// title, body and any extracted attachment text. Empty when the item has
// nothing searchable.
func IndexableText(item *ContentItem) string {
	text := item.Title
	if item.Body != "" {
		if text != "" {
			text += "\n\n"
		}
		text += item.Body
	}
	if item.AttachmentText != "" {
		if text != "" {
			text += "\n\n"
		}
		text += item.AttachmentText
	}
	return text
}
