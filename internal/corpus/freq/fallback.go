package freq

// fallbackRanks is the built-in frequency table, used when no corpus-built
// table is available. Ranks 1-100 follow the DCC core vocabulary ordering;
// the remainder covers vocabulary prominent in De Bello Gallico Book 1.
var fallbackRanks = map[string]int{
	// Top 50 most common
	"sum": 1, "et": 2, "in": 3, "is": 4, "qui": 5,
	"non": 6, "hic": 7, "ego": 8, "ut": 9, "cum": 10,
	"de": 11, "si": 12, "omnis": 13, "ab": 14, "ille": 15,
	"sed": 16, "neque": 17, "ex": 18, "atque": 19, "ad": 20,
	"ipse": 21, "per": 22, "quis": 23, "possum": 24, "facio": 25,
	"dico": 26, "video": 27, "habeo": 28, "do": 29, "res": 30,
	"tu": 31, "magnus": 32, "pars": 33, "quam": 34, "suus": 35,
	"alius": 36, "iam": 37, "bonus": 38, "vir": 39, "primus": 40,
	"meus": 41, "unus": 42, "noster": 43, "venio": 44, "tantus": 45,
	"enim": 46, "multus": 47, "causa": 48, "genus": 49, "aut": 50,
	// 51-100
	"tamen": 51, "idem": 52, "annus": 53, "dies": 54, "bellum": 55,
	"nunc": 56, "manus": 57, "ubi": 58, "nihil": 59, "pater": 60,
	"inter": 61, "populus": 62, "capio": 63, "locus": 64, "animus": 65,
	"alter": 66, "fero": 67, "terra": 68, "urbs": 69, "homo": 70,
	"publicus": 71, "consul": 72, "rex": 73, "corpus": 74, "ager": 75,
	"mitto": 76, "hostis": 77, "castra": 78, "voco": 79, "tempus": 80,
	"ante": 81, "civis": 82, "peto": 83, "miles": 84, "deus": 85,
	"nomen": 86, "post": 87, "civitas": 88, "exercitus": 89, "iter": 90,
	"finis": 91, "novus": 92, "mos": 93, "virtus": 94, "potestas": 95,
	"natura": 96, "aqua": 97, "imperium": 98, "verbum": 99, "pax": 100,
	// Caesar vocabulary
	"gallia": 101, "divido": 102, "tres": 103, "incolo": 110,
	"belgae": 115, "aquitani": 120, "lingua": 125, "celtae": 130,
	"galli": 135, "appellor": 140, "lex": 145, "institutum": 150,
	"differo": 155, "flumen": 160, "garumna": 165, "matrona": 170,
	"sequana": 175, "fortis": 180, "propterea": 185, "cultus": 190,
	"humanitas": 195, "provincia": 200, "mercator": 205, "commeor": 210,
	"effemino": 215, "germani": 220, "rhenus": 225, "continenter": 230,
	"gero": 235, "helvetii": 240, "reliquus": 245, "praecedo": 250,
	"cotidianus": 255, "proelium": 260, "contendo": 265, "prohibeo": 270,
	"obtendo": 275, "initium": 280, "rhodanus": 285, "oceanus": 290,
	"attingo": 295, "vergo": 300, "septentriones": 305, "orior": 310,
	"inferior": 315, "specto": 320, "oriens": 325, "sol": 330,
	"pyrenaei": 335, "mons": 340, "hispania": 345, "occasus": 350,
}

// Fallback returns the built-in frequency table.
func Fallback() Table {
	return New(fallbackRanks)
}
