// Package scientific provides the calculator's numeric commands: expression
// evaluation, square root, square, natural logarithm and the π and e
// constants.
package scientific
