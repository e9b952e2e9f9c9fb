// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package historytree - versioned append only aggregation tree
//
// the version of a tree is the index of the last appended leaf, an
// empty tree has version -1
//
// node (layer, index) covers leaves index<<layer to
// ((index+1)<<layer)-1 and the root at version v is (bits.Len(v), 0)
//
// at version v a node whose first leaf is after v is absent, a node
// whose last leaf is at or before v is frozen and any other node is
// combined from its children
//
// a pruned tree keeps only the paths needed to recompute specific
// root hashes, everything else is replaced by stub aggregations
package historytree
