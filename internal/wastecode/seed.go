package wastecode

// Bundled subsets of the published lists, enough to serve lookups and to
// exercise the list plumbing. Full lists are loaded by seeding over these.

var federalCodes = []Code{
	{Code: "D001", Description: "Ignitable waste"},
	{Code: "D002", Description: "Corrosive waste"},
	{Code: "D003", Description: "Reactive waste"},
	{Code: "D004", Description: "Arsenic"},
	{Code: "D005", Description: "Barium"},
	{Code: "D006", Description: "Cadmium"},
	{Code: "D007", Description: "Chromium"},
	{Code: "D008", Description: "Lead"},
	{Code: "F001", Description: "Spent halogenated solvents used in degreasing"},
	{Code: "F002", Description: "Spent halogenated solvents"},
	{Code: "F003", Description: "Spent non-halogenated solvents"},
	{Code: "F005", Description: "Spent non-halogenated solvents"},
	{Code: "P001", Description: "Warfarin, & salts, when present at concentrations greater than 0.3%"},
	{Code: "U002", Description: "Acetone (I)"},
	{Code: "U151", Description: "Mercury"},
}

var stateCodes = []Code{
	{Code: "121", State: "TX", Description: "Alkaline solution without metals"},
	{Code: "123", State: "TX", Description: "Unspecified alkaline solution"},
	{Code: "131", State: "CA", Description: "Aqueous solution with metals"},
	{Code: "132", State: "CA", Description: "Aqueous solution with total organic residues less than 10 percent"},
	{Code: "133", State: "CA", Description: "Aqueous solution with total organic residues 10 percent or more"},
	{Code: "141", State: "CA", Description: "Off-specification, aged, or surplus inorganics"},
	{Code: "B001", State: "MI", Description: "Severely toxic waste"},
}

var formCodes = []Code{
	{Code: "W101", Description: "Very dilute aqueous waste"},
	{Code: "W200", Description: "Still bottoms in liquid form"},
	{Code: "W202", Description: "Concentrated halogenated solvent"},
	{Code: "W301", Description: "Contaminated soil"},
	{Code: "W504", Description: "Lab packs of mixed old chemicals"},
}

var densityCodes = []Code{
	{Code: "1", Description: "lbs/gal"},
	{Code: "2", Description: "sg"},
}
