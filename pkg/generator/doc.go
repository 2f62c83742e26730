// Package generator turns a GridModel and a Seed into a Table of coloured
// cells. Generation is a pure function: the same model, seed and palette
// always produce the same table, while advancing the seed's generation
// counter changes the colour of every cell.
package generator
