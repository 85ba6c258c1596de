package options

import "github.com/ogzhanolguncu/cpgo/internal/enum"

// Interactive is the overwrite policy for existing destinations.
type Interactive int

const (
	InteractiveUnspecified Interactive = iota
	AlwaysYes
	AlwaysNo
	AskUser
)

func (i Interactive) String() string {
	switch i {
	case AlwaysYes:
		return "always-yes"
	case AlwaysNo:
		return "always-no"
	case AskUser:
		return "ask-user"
	}
	return "unspecified"
}

// Dereference says which symbolic links in sources are followed.
type Dereference int

const (
	DerefUndefined Dereference = iota
	DerefNever
	DerefCommandLine
	DerefAlways
)

func (d Dereference) String() string {
	switch d {
	case DerefNever:
		return "never"
	case DerefCommandLine:
		return "command-line"
	case DerefAlways:
		return "always"
	}
	return "undefined"
}

// ReflinkMode controls copy-on-write clones.
type ReflinkMode int

const (
	ReflinkNever ReflinkMode = iota
	ReflinkAuto
	ReflinkAlways
)

func (r ReflinkMode) String() string {
	switch r {
	case ReflinkAuto:
		return "auto"
	case ReflinkAlways:
		return "always"
	}
	return "never"
}

// SparseMode controls creation of files with holes.
type SparseMode int

const (
	SparseAuto SparseMode = iota
	SparseAlways
	SparseNever
)

func (s SparseMode) String() string {
	switch s {
	case SparseAlways:
		return "always"
	case SparseNever:
		return "never"
	}
	return "auto"
}

// UpdateMode controls which existing destinations are replaced.
type UpdateMode int

const (
	UpdateAll UpdateMode = iota
	UpdateNone
	UpdateNoneFail
	UpdateOlder
)

func (u UpdateMode) String() string {
	switch u {
	case UpdateNone:
		return "none"
	case UpdateNoneFail:
		return "none-fail"
	case UpdateOlder:
		return "older"
	}
	return "all"
}

// Attribute is a file attribute named in --preserve and --no-preserve lists.
type Attribute int

const (
	AttrMode Attribute = iota
	AttrOwnership
	AttrTimestamps
	AttrLinks
	AttrContext
	AttrXattr
	AttrAll
)

// PreserveSet records which attributes are preserved.
type PreserveSet struct {
	Mode       bool
	Ownership  bool
	Timestamps bool
	Links      bool
	Context    bool
	Xattr      bool
}

// All reports whether every attribute is preserved.
func (p PreserveSet) All() bool {
	return p.Mode && p.Ownership && p.Timestamps && p.Links && p.Context && p.Xattr
}

func (p *PreserveSet) set(a Attribute, on bool) {
	switch a {
	case AttrMode:
		p.Mode = on
	case AttrOwnership:
		p.Ownership = on
	case AttrTimestamps:
		p.Timestamps = on
	case AttrLinks:
		p.Links = on
	case AttrContext:
		p.Context = on
	case AttrXattr:
		p.Xattr = on
	case AttrAll:
		*p = PreserveSet{on, on, on, on, on, on}
	}
}

func attributes(flag string) *enum.Set[Attribute] {
	return enum.New(flag,
		enum.Variant[Attribute]{Value: AttrMode, Name: "mode"},
		enum.Variant[Attribute]{Value: AttrOwnership, Name: "ownership"},
		enum.Variant[Attribute]{Value: AttrTimestamps, Name: "timestamps"},
		enum.Variant[Attribute]{Value: AttrLinks, Name: "links"},
		enum.Variant[Attribute]{Value: AttrContext, Name: "context"},
		enum.Variant[Attribute]{Value: AttrXattr, Name: "xattr"},
		enum.Variant[Attribute]{Value: AttrAll, Name: "all"},
	)
}

// Enumerations owned by individual flags.
var (
	PreserveAttrs   = attributes("--preserve")
	NoPreserveAttrs = attributes("--no-preserve")

	ReflinkModes = enum.New("--reflink",
		enum.Variant[ReflinkMode]{Value: ReflinkAlways, Name: "always"},
		enum.Variant[ReflinkMode]{Value: ReflinkAuto, Name: "auto"},
		enum.Variant[ReflinkMode]{Value: ReflinkNever, Name: "never"},
	)

	SparseModes = enum.New("--sparse",
		enum.Variant[SparseMode]{Value: SparseAlways, Name: "always"},
		enum.Variant[SparseMode]{Value: SparseAuto, Name: "auto"},
		enum.Variant[SparseMode]{Value: SparseNever, Name: "never"},
	)

	UpdateModes = enum.New("--update",
		enum.Variant[UpdateMode]{Value: UpdateAll, Name: "all"},
		enum.Variant[UpdateMode]{Value: UpdateNone, Name: "none"},
		enum.Variant[UpdateMode]{Value: UpdateNoneFail, Name: "none-fail"},
		enum.Variant[UpdateMode]{Value: UpdateOlder, Name: "older"},
	)
)
