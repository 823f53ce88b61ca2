package seat

type Type string

const (
	TypeRegular  Type = "REGULAR"
	TypePremium  Type = "PREMIUM"
	TypeRecliner Type = "RECLINER"
	TypeVIP      Type = "VIP"
	TypeCouple   Type = "COUPLE"
	TypeBalcony  Type = "BALCONY"
	TypeSofa     Type = "SOFA"
	TypeLuxury   Type = "LUXURY"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeRegular, TypePremium, TypeRecliner, TypeVIP,
		TypeCouple, TypeBalcony, TypeSofa, TypeLuxury:
		return true
	default:
		return false
	}
}
