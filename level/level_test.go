/*
 * MIT License
 *
 * Copyright (c) 2026 plebhash
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package level

import "testing"

func TestParseValidRange(t *testing.T) {
	for n := 0; n <= 7; n++ {
		lvl, ok := Parse(n)
		if !ok {
			t.Fatalf("Parse(%d) ok=false, want true", n)
		}
		if int(lvl) != n {
			t.Fatalf("Parse(%d) = %d, want %d", n, lvl, n)
		}
	}
}

func TestParseOutOfRange(t *testing.T) {
	for _, n := range []int{-1, 8, 99, -100} {
		if _, ok := Parse(n); ok {
			t.Fatalf("Parse(%d) ok=true, want false", n)
		}
	}
}

func TestStringUniquePerLevel(t *testing.T) {
	seen := map[string]bool{}
	for lvl := Emergency; lvl <= Debug; lvl++ {
		s := lvl.String()
		if s == "" {
			t.Fatalf("Level(%d).String() is empty", lvl)
		}
		if seen[s] {
			t.Fatalf("duplicate String() %q for level %d", s, lvl)
		}
		seen[s] = true
	}
}

func TestLogrusCollapsesEightIntoSix(t *testing.T) {
	// Emergency/Alert/Critical all collapse onto logrus.PanicLevel; Notice
	// collapses onto logrus.InfoLevel alongside Info. Exercise that the
	// conversion never panics and stays within logrus's own level range.
	for lvl := Emergency; lvl <= Debug; lvl++ {
		got := lvl.Logrus()
		if uint32(got) > 6 {
			t.Fatalf("Level(%d).Logrus() = %v, out of logrus's range", lvl, got)
		}
	}
}
