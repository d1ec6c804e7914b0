package palette

// darkening maps each colour id to the id one step darker. Ids that map to
// themselves are the darkest entry of their progression.
var darkening = map[int]int{
	0: 0,

	// grayscale
	1: 1,
	2: 1,
	3: 2,
	4: 3,
	5: 4,

	// red / orange / yellow
	6:  6,
	7:  6,
	8:  7,
	9:  8,
	10: 9,
	11: 10,

	// green
	12: 12,
	13: 12,
	14: 13,

	// teal
	15: 15,
	16: 15,
	17: 16,

	// blue
	18: 18,
	19: 18,
	20: 19,

	// indigo / purple
	21: 18,
	22: 21,
	23: 23,
	24: 23,
	25: 24,

	// pink
	26: 26,
	27: 26,
	28: 27,

	// brown / beige
	29: 29,
	30: 29,
	31: 30,

	// premium
	32: 3,
	33: 6,
	34: 7,
	35: 33,
	36: 31,
	37: 30,
	38: 37,
	39: 38,
	40: 40,
	41: 40,
	42: 41,
	43: 18,
	44: 20,
	45: 19,
	46: 23,
	47: 47,
	48: 47,
	49: 48,
	50: 30,
	51: 29,
	52: 31,
	53: 53,
	54: 53,
	55: 54,
	56: 56,
	57: 56,
	58: 58,
	59: 58,
	60: 59,
	61: 61,
	62: 61,
	63: 62,
}

// DarkerID returns the id one step darker than id.
func DarkerID(id int) (int, bool) {
	d, ok := darkening[id]
	return d, ok
}

// Darker returns the catalog colour one step darker than c. It reports
// false when c is not a catalog colour, has no progression entry, or
// would darken to transparent.
func Darker(c Color) (Color, bool) {
	id, ok := IDOf(c)
	if !ok {
		return None, false
	}
	darkerID, ok := DarkerID(id)
	if !ok || darkerID == TransparentID {
		return None, false
	}
	return ByID(darkerID)
}
