package fuse

import (
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/ginot/kriptofs/pkg/passthrough"
)

// Replies carry a one second validity window for both entries and
// attributes; the kernel re-issues lookup/getattr after it expires.
const (
	entryTimeout = time.Second
	attrTimeout  = time.Second
)

// kindToMode maps a normalized object kind to the file-type bits the
// kernel expects in the mode field.
func kindToMode(kind passthrough.FileKind) uint32 {
	switch kind {
	case passthrough.KindDirectory:
		return fuse.S_IFDIR
	case passthrough.KindSymlink:
		return fuse.S_IFLNK
	default:
		return fuse.S_IFREG
	}
}

// populateAttr fills a kernel attribute structure from a translated
// attribute record. The permission bits and type bits are recombined
// here; the record itself never carries type bits in Perm.
func populateAttr(attr *passthrough.FileAttr, out *fuse.Attr) {
	out.Ino = attr.Ino
	out.Size = attr.Size
	out.Blocks = attr.Blocks
	out.Atime = uint64(attr.Atime.Unix())
	out.Atimensec = uint32(attr.Atime.Nanosecond())
	out.Mtime = uint64(attr.Mtime.Unix())
	out.Mtimensec = uint32(attr.Mtime.Nanosecond())
	out.Ctime = uint64(attr.Ctime.Unix())
	out.Ctimensec = uint32(attr.Ctime.Nanosecond())
	out.Mode = kindToMode(attr.Kind) | attr.Perm
	out.Nlink = attr.Nlink
	out.Owner = fuse.Owner{Uid: attr.UID, Gid: attr.GID}
	out.Rdev = attr.Rdev
	out.Blksize = attr.Blksize
}

// populateEntryOut fills a lookup reply: attribute record, inode as the
// node ID, generation 0 (inodes are never reused, so generations never
// advance), and the validity window.
func populateEntryOut(attr *passthrough.FileAttr, out *fuse.EntryOut) {
	out.NodeId = attr.Ino
	out.Generation = 0
	populateAttr(attr, &out.Attr)
	out.SetEntryTimeout(entryTimeout)
	out.SetAttrTimeout(attrTimeout)
}
