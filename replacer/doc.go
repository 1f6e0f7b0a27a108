// Package replacer substitutes literal placeholder tokens in text. Pairs is
// an ordered list of token/value substitutions; Apply runs them one after
// another over an in-memory buffer and ApplyFile rewrites a file in place.
//
// Every pass rescans the whole buffer produced by the previous one, so a
// value inserted by an early pair is itself subject to later pairs.
package replacer
