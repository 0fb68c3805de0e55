package astro

import (
	"errors"
	"fmt"
)

// ErrInvalidDate is returned for dates the calculators cannot place on a calendar (the zero time).
var ErrInvalidDate = errors.New("invalid date")

// Animal is one of the twelve zodiac animals.
type Animal string

const (
	Rat     Animal = "rat"
	Ox      Animal = "ox"
	Tiger   Animal = "tiger"
	Rabbit  Animal = "rabbit"
	Dragon  Animal = "dragon"
	Snake   Animal = "snake"
	Horse   Animal = "horse"
	Goat    Animal = "goat"
	Monkey  Animal = "monkey"
	Rooster Animal = "rooster"
	Dog     Animal = "dog"
	Pig     Animal = "pig"
)

var zodiacAnimals = [12]Animal{Rat, Ox, Tiger, Rabbit, Dragon, Snake, Horse, Goat, Monkey, Rooster, Dog, Pig}

// Animals returns the twelve animals in cyclic order, starting with the rat.
func Animals() []Animal {
	out := make([]Animal, len(zodiacAnimals))
	copy(out, zodiacAnimals[:])
	return out
}

// Index returns the position of the animal in the cycle, or -1 if unknown.
func (a Animal) Index() int {
	for i, v := range zodiacAnimals {
		if v == a {
			return i
		}
	}
	return -1
}

// Valid reports whether a is one of the twelve animals.
func (a Animal) Valid() bool { return a.Index() >= 0 }

// Element is one of the five phases.
type Element string

const (
	Wood  Element = "wood"
	Fire  Element = "fire"
	Earth Element = "earth"
	Metal Element = "metal"
	Water Element = "water"
)

var elements = [5]Element{Wood, Fire, Earth, Metal, Water}

// Elements returns the five elements in generating order.
func Elements() []Element {
	out := make([]Element, len(elements))
	copy(out, elements[:])
	return out
}

// Index returns the position of the element in generating order, or -1 if unknown.
func (e Element) Index() int {
	for i, v := range elements {
		if v == e {
			return i
		}
	}
	return -1
}

// Valid reports whether e is one of the five elements.
func (e Element) Valid() bool { return e.Index() >= 0 }

// Stem is a Heavenly Stem, 0 (甲) through 9 (癸).
type Stem int

var stemNames = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

// String returns the stem's character.
func (s Stem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stem(%d)", int(s))
	}
	return stemNames[s]
}

// Valid reports whether s is within 0..9.
func (s Stem) Valid() bool { return s >= 0 && int(s) < len(stemNames) }

// Element returns the stem's element. Consecutive pairs share an element.
func (s Stem) Element() Element {
	return elements[int(s)/2]
}

// MarshalText encodes the stem as its character.
func (s Stem) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("astro: invalid stem %d", int(s))
	}
	return []byte(stemNames[s]), nil
}

// UnmarshalText decodes a stem character.
func (s *Stem) UnmarshalText(b []byte) error {
	for i, n := range stemNames {
		if n == string(b) {
			*s = Stem(i)
			return nil
		}
	}
	return fmt.Errorf("astro: unknown stem %q", string(b))
}

// Branch is an Earthly Branch, 0 (子) through 11 (亥).
type Branch int

var branchNames = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// String returns the branch's character.
func (b Branch) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Branch(%d)", int(b))
	}
	return branchNames[b]
}

// Valid reports whether b is within 0..11.
func (b Branch) Valid() bool { return b >= 0 && int(b) < len(branchNames) }

// Animal returns the zodiac animal associated with the branch.
func (b Branch) Animal() Animal { return zodiacAnimals[b] }

// MarshalText encodes the branch as its character.
func (b Branch) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("astro: invalid branch %d", int(b))
	}
	return []byte(branchNames[b]), nil
}

// UnmarshalText decodes a branch character.
func (b *Branch) UnmarshalText(text []byte) error {
	for i, n := range branchNames {
		if n == string(text) {
			*b = Branch(i)
			return nil
		}
	}
	return fmt.Errorf("astro: unknown branch %q", string(text))
}

// mod returns the non-negative remainder of a divided by n.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
