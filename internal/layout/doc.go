// Package layout implements the binary space partition engine behind dwindle.
//
// The engine keeps a strict binary tree whose leaves hold clients (one per
// window) and projects it onto a tile hierarchy supplied by the caller. New
// clients are inserted dwindle style: the engine always descends one fixed
// side of the tree and splits the leaf it reaches, so every insertion spirals
// further into a corner of the screen.
//
// Only relative information lives in the tree: which node holds which client,
// the share of the first child along the split axis, and the axis that was
// last used for each split. Pixel geometry belongs to the tiles.
package layout
