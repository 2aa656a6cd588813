package inspection

// PartCode identifies one of the 27 canonical inspection points.
type PartCode string

const (
	CodeFrontBumper     PartCode = "FBR"
	CodeBumperBarFront  PartCode = "BBF"
	CodeHeadLampLeft    PartCode = "HLP-L"
	CodeGrill           PartCode = "GRL"
	CodeHeadLampRight   PartCode = "HLP-R"
	CodeFenderLeft      PartCode = "FEN-L"
	CodeHood            PartCode = "HOD"
	CodeFenderRight     PartCode = "FEN-R"
	CodeEngine          PartCode = "ENG"
	CodeTransmission    PartCode = "TRA"
	CodeFrontAxle       PartCode = "FAX"
	CodeCrossMember     PartCode = "UCM"
	CodeMirrorLeft      PartCode = "DMR-L"
	CodeAirbag          PartCode = "BAG"
	CodeMirrorRight     PartCode = "DMR-R"
	CodeFrontDoorLeft   PartCode = "FDR-L"
	CodeFrontDoorRight  PartCode = "FDR-R"
	CodeRearDoorLeft    PartCode = "RDR-L"
	CodeRearDoorRight   PartCode = "RDR-R"
	CodeQuarterLeft     PartCode = "QTR-L"
	CodeQuarterRight    PartCode = "QTR-R"
	CodeRearAxle        PartCode = "RAX"
	CodeTailLampLeft    PartCode = "TLP-L"
	CodeTailLampRight   PartCode = "TLP-R"
	CodeTrunkLid        PartCode = "LID"
	CodeRearBumper      PartCode = "RBR"
	CodeBumperBarRear   PartCode = "BBR"
)

// PartDefinition is an immutable catalog entry. The catalog is fixed at 27
// entries; assembled results always contain one part per entry, in this order.
type PartDefinition struct {
	ID   int      `json:"id"`
	Code PartCode `json:"code"`
	Name string   `json:"name"`
}

// Catalog is the canonical 27-point part list, in evaluation order.
var Catalog = []PartDefinition{
	{ID: 1, Code: CodeFrontBumper, Name: "Front Bumper Bar"},
	{ID: 2, Code: CodeBumperBarFront, Name: "Bumper Bar Front"},
	{ID: 3, Code: CodeHeadLampLeft, Name: "Head Lamp Left"},
	{ID: 4, Code: CodeGrill, Name: "Grill"},
	{ID: 5, Code: CodeHeadLampRight, Name: "Head Lamp Right"},
	{ID: 6, Code: CodeFenderLeft, Name: "Fender Left"},
	{ID: 7, Code: CodeHood, Name: "Hood"},
	{ID: 8, Code: CodeFenderRight, Name: "Fender Right"},
	{ID: 9, Code: CodeEngine, Name: "Engine"},
	{ID: 10, Code: CodeTransmission, Name: "Transmission"},
	{ID: 11, Code: CodeFrontAxle, Name: "Front Axle Assembly"},
	{ID: 12, Code: CodeCrossMember, Name: "UnderCarriage X-Member"},
	{ID: 13, Code: CodeMirrorLeft, Name: "Door Mirror - Left"},
	{ID: 14, Code: CodeAirbag, Name: "AirBag"},
	{ID: 15, Code: CodeMirrorRight, Name: "Door Mirror - Right"},
	{ID: 16, Code: CodeFrontDoorLeft, Name: "Front Door Left"},
	{ID: 17, Code: CodeFrontDoorRight, Name: "Front Door Right"},
	{ID: 18, Code: CodeRearDoorLeft, Name: "Rear Door Left"},
	{ID: 19, Code: CodeRearDoorRight, Name: "Rear Door Right"},
	{ID: 20, Code: CodeQuarterLeft, Name: "Quarter Panel Left"},
	{ID: 21, Code: CodeQuarterRight, Name: "Quarter Panel Right"},
	{ID: 22, Code: CodeRearAxle, Name: "Rear Axle Assembly"},
	{ID: 23, Code: CodeTailLampLeft, Name: "Tail Lamp Left"},
	{ID: 24, Code: CodeTailLampRight, Name: "Tail Lamp Right"},
	{ID: 25, Code: CodeTrunkLid, Name: "TrunkLid/LiftGate/TailGate"},
	{ID: 26, Code: CodeRearBumper, Name: "Rear Bumper"},
	{ID: 27, Code: CodeBumperBarRear, Name: "Bumper Bar Rear"},
}

// CatalogSize is the number of canonical parts in every assembled result.
const CatalogSize = 27

// LookupPart finds a catalog entry by code.
func LookupPart(code PartCode) (PartDefinition, bool) {
	for _, def := range Catalog {
		if def.Code == code {
			return def, true
		}
	}
	return PartDefinition{}, false
}
