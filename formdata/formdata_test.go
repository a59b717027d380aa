package formdata

import (
	"bytes"
	"mime"
	"mime/multipart"
	"reflect"
	"testing"

	"github.com/meridaco/catalogbackend/dto"
	"github.com/meridaco/catalogbackend/utils"
)

func sampleProductForm() ProductForm {
	price := 49.9
	stock := 12
	return ProductForm{
		Name:       "Oak Table",
		Currency:   "EUR",
		Price:      129.5,
		Stock:      4,
		Sku:        "OAK-1",
		Weight:     18.2,
		WeightUnit: "KG",
		Status:     "PUBLISHED",

		Packages: []dto.PackageDTO{
			{Length: 120, Breadth: 80, Width: 10, Unit: "cm"},
		},
		VariantFields: []string{"Finish"},
		Variants: []dto.VariantDTO{
			{
				Name: "Dark Oak", Sku: "OAK-1-D", Price: &price, Stock: &stock,
				Attributes: []dto.VariantAttributeDTO{{Name: "Finish", Value: "Dark"}},
			},
		},
		Translations: []dto.ProductTranslationDTO{
			{Language: "en", Name: "Oak Table", Description: "Solid oak."},
			{Language: "de", Name: "Eichentisch"},
		},
		Metadata: map[string]interface{}{"b": "two", "a": "one"},

		Images: []File{
			{Name: "front.png", ContentType: "image/png", Content: []byte("png-bytes-front")},
			{Name: "side.png", ContentType: "image/png", Content: []byte("png-bytes-side")},
		},

		PrimaryImageIndex: 1,
	}
}

func parseForm(t *testing.T, body []byte, contentType string) *multipart.Form {
	t.Helper()
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatal(err)
	}
	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	form, err := reader.ReadForm(10 << 20)
	if err != nil {
		t.Fatal(err)
	}
	return form
}

func TestEncodeProductFormDeterministic(t *testing.T) {
	f := sampleProductForm()

	first, ct1, err := EncodeProductForm(f)
	if err != nil {
		t.Fatal(err)
	}
	second, ct2, err := EncodeProductForm(f)
	if err != nil {
		t.Fatal(err)
	}

	if ct1 != ct2 {
		t.Fatalf("content types differ: %q vs %q", ct1, ct2)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("same form encoded twice produced different bytes")
	}
}

func TestEncodeProductFormRoundTrip(t *testing.T) {
	f := sampleProductForm()

	body, contentType, err := EncodeProductForm(f)
	if err != nil {
		t.Fatal(err)
	}

	form := parseForm(t, body, contentType)
	defer form.RemoveAll()

	field := func(name string) string {
		vs := form.Value[name]
		if len(vs) != 1 {
			t.Fatalf("field %q: expected exactly one value, got %v", name, vs)
		}
		return vs[0]
	}

	// Scalars survive as strings
	if field("name") != "Oak Table" {
		t.Fatalf("name = %q", field("name"))
	}
	if field("price") != "129.5" {
		t.Fatalf("price = %q", field("price"))
	}
	if field("stock") != "4" {
		t.Fatalf("stock = %q", field("stock"))
	}
	if field("status") != "PUBLISHED" {
		t.Fatalf("status = %q", field("status"))
	}

	// Structured fields survive a JSON round trip deep-equal
	gotPackages := utils.DecodeArrayLenient[dto.PackageDTO](field("packages"))
	if !reflect.DeepEqual(gotPackages, f.Packages) {
		t.Fatalf("packages round trip: %+v != %+v", gotPackages, f.Packages)
	}

	gotVariants := utils.DecodeArrayLenient[dto.VariantDTO](field("variants"))
	if len(gotVariants) != 1 || gotVariants[0].Sku != "OAK-1-D" {
		t.Fatalf("variants round trip: %+v", gotVariants)
	}
	if gotVariants[0].Attributes[0].Value.String() != "Dark" {
		t.Fatalf("attribute round trip: %+v", gotVariants[0].Attributes)
	}

	gotTranslations := utils.DecodeArrayLenient[dto.ProductTranslationDTO](field("ProductTranslations"))
	if !reflect.DeepEqual(gotTranslations, f.Translations) {
		t.Fatalf("translations round trip: %+v != %+v", gotTranslations, f.Translations)
	}

	gotMetadata := utils.DecodeMapLenient(field("metadata"))
	if !reflect.DeepEqual(gotMetadata, f.Metadata) {
		t.Fatalf("metadata round trip: %+v != %+v", gotMetadata, f.Metadata)
	}

	// File parts arrive in order under the repeated key
	files := form.File["images"]
	if len(files) != 2 {
		t.Fatalf("expected 2 image parts, got %d", len(files))
	}
	if files[0].Filename != "front.png" || files[1].Filename != "side.png" {
		t.Fatalf("image order lost: %v, %v", files[0].Filename, files[1].Filename)
	}
	part, err := files[0].Open()
	if err != nil {
		t.Fatal(err)
	}
	defer part.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(part); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "png-bytes-front" {
		t.Fatalf("file content mangled: %q", buf.String())
	}

	// Client-only state never hits the wire
	if _, present := form.Value["PrimaryImageIndex"]; present {
		t.Fatal("PrimaryImageIndex must not be submitted")
	}
	if _, present := form.Value["primaryImageIndex"]; present {
		t.Fatal("primaryImageIndex must not be submitted")
	}
}

func TestEncodeCategoryFormRoundTrip(t *testing.T) {
	f := CategoryForm{
		Name: "Chairs",
		Translations: []dto.CategoryTranslationDTO{
			{Language: "en", Name: "Chairs", Description: "All chairs."},
		},
		Image: &File{Name: "cat.png", ContentType: "image/png", Content: []byte("x")},
	}

	body, contentType, err := EncodeCategoryForm(f)
	if err != nil {
		t.Fatal(err)
	}

	form := parseForm(t, body, contentType)
	defer form.RemoveAll()

	if got := form.Value["name"]; len(got) != 1 || got[0] != "Chairs" {
		t.Fatalf("name = %v", got)
	}
	gotTranslations := utils.DecodeArrayLenient[dto.CategoryTranslationDTO](form.Value["translations"][0])
	if !reflect.DeepEqual(gotTranslations, f.Translations) {
		t.Fatalf("translations round trip: %+v", gotTranslations)
	}
	if len(form.File["image"]) != 1 {
		t.Fatalf("expected one image part")
	}

	// Absent optional fields stay absent
	if _, present := form.Value["parentId"]; present {
		t.Fatal("empty parentId must be omitted")
	}
}
