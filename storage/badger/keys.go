package badger

import (
	"fmt"

	"github.com/esinocchi/ClassMate/core"
)

// Key prefixes for different data types
const (
	collectionMetaPrefix = "colmeta"
	contentItemPrefix    = "colitem"
	coursePrefix         = "colcrs"
	chunkPrefix          = "colchk"
)

// makeMetaKey generates the metadata key for a collection.
func makeMetaKey(collectionID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", collectionMetaPrefix, collectionID))
}

// Record keys carry the save version so a new save can be written next to
// the live one; the meta record names the version readers should load.

// makeItemKey generates a key for a content item within one saved version.
func makeItemKey(collectionID string, version uint64, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d:%d", contentItemPrefix, collectionID, version, id))
}

// makeCourseKey generates a key for a course within one saved version.
func makeCourseKey(collectionID string, version uint64, id int64) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d:%d", coursePrefix, collectionID, version, id))
}

// makeChunkKey generates a key for a chunk within one saved version.
func makeChunkKey(collectionID string, version uint64, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d:%d", chunkPrefix, collectionID, version, id))
}

// makeVersionPrefix generates the iteration prefix for one record kind
// within one saved version of a collection.
func makeVersionPrefix(kindPrefix, collectionID string, version uint64) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d:", kindPrefix, collectionID, version))
}

// makeCollectionPrefix generates the iteration prefix for one record kind
// across every saved version of a collection.
func makeCollectionPrefix(kindPrefix, collectionID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", kindPrefix, collectionID))
}
