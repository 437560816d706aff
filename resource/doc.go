// Package resource loads textures from an ordered set of PACK archives.
//
// It is the calling layer that composes the pak and m32 codecs: a texture
// path is looked up in each archive in turn, the first archive holding it
// wins, and the entry is decoded as an M32 texture. Archives that do not
// exist on disk are skipped, so a base install and its expansion packs can
// share one search list.
//
// Decoded textures are cached and concurrent loads of the same path are
// collapsed into one.
package resource
