package inference

import (
	"strings"

	"github.com/MKhiriev/agricheck/models"
)

// Class labels in model output order.
const (
	ClassBacterialLeafBlight = "bacterial_leaf_blight"
	ClassHealthy             = "healthy"
	ClassLeafBlast           = "leaf_blast"
	ClassTungroVirus         = "tungro_virus"
)

// Classes lists the labels in the order of the model's output layer.
var Classes = []string{
	ClassBacterialLeafBlight,
	ClassHealthy,
	ClassLeafBlast,
	ClassTungroVirus,
}

// Disease is the catalogue entry of one class.
type Disease struct {
	Class          string
	Name           string
	Severity       models.Severity
	ActionRequired bool

	// Advice is the Filipino care guidance shown to the farmer.
	Advice string
}

const unknownAdvice = "Pakipagkonsulta sa agricultural expert para sa tamang diagnosis at treatment."

var catalogue = map[string]Disease{
	ClassHealthy: {
		Class:          ClassHealthy,
		Name:           models.HealthyDiseaseName,
		Severity:       models.SeverityNone,
		ActionRequired: false,
		Advice: "Ang inyong palay ay mukhang maayos at mabuti. Magpatuloy sa regular na pagdidilig at " +
			"pagpapabunga. Bantayan ang anumang pagbabago at panatilihin ang mabuting pagsasaka.",
	},
	ClassBacterialLeafBlight: {
		Class:          ClassBacterialLeafBlight,
		Name:           "Bacterial Leaf Blight",
		Severity:       models.SeverityModerate,
		ActionRequired: true,
		Advice: "Nakita ang Bacterial Leaf Blight. Ito ay karaniwang sakit ng palay na maaaring ma-manage. " +
			"Tanggalin ang mga apektadong dahon at gumamit ng copper-based na bactericide. Siguraduhing may " +
			"sapat na hangin sa pamamagitan ng tamang spacing. Gumamit ng resistant varieties sa susunod na " +
			"tanim. Sa tamang pangangalaga, maaaring gumaling ang inyong pananim.",
	},
	ClassLeafBlast: {
		Class:          ClassLeafBlast,
		Name:           "Leaf Blast",
		Severity:       models.SeverityModerate,
		ActionRequired: true,
		Advice: "Nakita ang Leaf Blast. Ito ay fungal disease na maaaring gamutin. Gumamit ng fungicide na " +
			"may tricyclazole o azoxystrobin ayon sa direksyon. Tanggalin ang mga apektadong dahon. " +
			"Panatilihin ang tamang spacing para sa sapat na hangin. Iwasan ang labis na nitrogen. " +
			"Maagang paggamot ay nakakatulong sa paggaling.",
	},
	ClassTungroVirus: {
		Class:          ClassTungroVirus,
		Name:           "Tungro Virus",
		Severity:       models.SeverityModerate,
		ActionRequired: true,
		Advice: "Nakita ang Tungro Virus. Ang viral disease na ito ay kumakalat sa pamamagitan ng " +
			"leafhoppers. Tanggalin ang mga apektadong halaman upang maiwasan ang pagkalat sa malulusog na " +
			"halaman. Kontrolin ang leafhoppers gamit ang angkop na insecticides. Isaalang-alang ang " +
			"paggamit ng resistant rice varieties sa susunod na tanim. Maagang pag-detect at pag-manage " +
			"ay makakatulong na mabawasan ang epekto.",
	},
}

// LookupDisease returns the catalogue entry for class. Classes missing from
// the catalogue get a title-cased name, unknown severity and generic advice.
func LookupDisease(class string) Disease {
	if d, ok := catalogue[strings.ToLower(class)]; ok {
		return d
	}
	return Disease{
		Class:          class,
		Name:           displayName(class),
		Severity:       models.SeverityUnknown,
		ActionRequired: true,
		Advice:         unknownAdvice,
	}
}

// DiseaseNames returns the display names of all classes in output order.
func DiseaseNames() []string {
	names := make([]string, len(Classes))
	for i, c := range Classes {
		names[i] = LookupDisease(c).Name
	}
	return names
}

func displayName(class string) string {
	words := strings.Fields(strings.ReplaceAll(class, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
