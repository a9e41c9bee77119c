/*
 * doc.go, part of msmgo.
 *
 * Copyright 2026 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package store implements a small persisted key-value store for analysis results: projected
//trajectory collections, plain arrays, lists of (trajectory, frame) pairs, and a metadata table
//with one row per trajectory.

/******************** Format Specification   ***************************************************

A store is a single file containing one JSON document, compressed according to the extension
of the file name:

.gz    gzip
.lz4   lz4 (frame format)
.json  no compression
other  z-standard (zstd). The recommended extension is .msm

The document is an object with the keys:

"format"   the string "msmstore"
"version"  an integer, currently 1. Readers must refuse versions larger than the ones they know.
"meta"     an object, possibly empty. Each key is a trajectory identifier and each value an
           object with string values (the columns of the metadata table).
"entries"  an object. Each key is the name of an entry, and each value an object with
           the keys "kind" and "value".

The kinds, and the corresponding value, are:

"array"    {"rows": r, "cols": c, "data": [...]} with r*c numbers, in row-major order.
           r and c must be larger than 0.
"mapping"  an object where each key is a trajectory identifier and each value an array
           as above.
"pairs"    an array of 2-element arrays [trajectory, frame]. The trajectory identifier can
           be a string or an integer, the frame must be an integer.

Trajectory identifiers that are integers are written as JSON numbers in pairs, and in their
decimal form in object keys.

***************************************************************************************************/

package store
