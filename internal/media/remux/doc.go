// Package remux converts non-Matroska containers to MKV before tagging,
// since mkvpropedit only writes Matroska. Strategies are tried in order from
// cheapest stream copy to a last-resort re-encode.
package remux
