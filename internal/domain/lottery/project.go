package lottery

// ProjectRecord 為正規化後的專案資料，建立後不再修改。
type ProjectRecord struct {
	LotteryNumber  int64
	City           string
	Contractor     string
	UnitsOffered   int64
	Subscribers    int64
	PricePerUnit   float64
	GrantSize      float64
	IsReligious    bool
	GroupingTag    string
	winProbability float64
}

// NewProjectRecord 由上游資料建立記錄並計算中籤機率。tag 需已確認非 nil。
func NewProjectRecord(p RawProject, tag string) ProjectRecord {
	return ProjectRecord{
		LotteryNumber:  p.LotteryNumber,
		City:           p.CityDescription,
		Contractor:     p.ContractorDescription,
		UnitsOffered:   p.UnitsOffered,
		Subscribers:    p.Subscribers,
		PricePerUnit:   p.PricePerUnit,
		GrantSize:      p.GrantSize,
		IsReligious:    p.IsReligious,
		GroupingTag:    tag,
		winProbability: WinProbability(p.UnitsOffered, p.Subscribers),
	}
}

// WinProbability 回傳百分比形式的中籤機率，報名人數為 0 時回傳 0。
func WinProbability(units, subscribers int64) float64 {
	if subscribers <= 0 {
		return 0
	}
	return float64(units) / float64(subscribers) * 100
}

func (r ProjectRecord) WinProbability() float64 {
	return r.winProbability
}

// CityAggregate 為單一城市的彙總。
type CityAggregate struct {
	City               string
	TotalUnits         int64
	MaxSubscribers     int64
	AvgPricePerUnit    float64
	CityWinProbability float64
	ProjectCount       int
}

func (a CityAggregate) WinProbability() float64 {
	return a.CityWinProbability
}

// RankBadge 為前三名標記。
type RankBadge int

const (
	BadgeNone RankBadge = iota
	BadgeFirst
	BadgeSecond
	BadgeThird
)

func (b RankBadge) String() string {
	switch b {
	case BadgeFirst:
		return "first"
	case BadgeSecond:
		return "second"
	case BadgeThird:
		return "third"
	default:
		return ""
	}
}

// Medal 回傳顯示用獎牌符號。
func (b RankBadge) Medal() string {
	switch b {
	case BadgeFirst:
		return "🥇"
	case BadgeSecond:
		return "🥈"
	case BadgeThird:
		return "🥉"
	default:
		return ""
	}
}

// MarshalText 讓 JSON 輸出為字串。
func (b RankBadge) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText 解析 MarshalText 的輸出，未知字串視為無標記。
func (b *RankBadge) UnmarshalText(text []byte) error {
	switch string(text) {
	case "first":
		*b = BadgeFirst
	case "second":
		*b = BadgeSecond
	case "third":
		*b = BadgeThird
	default:
		*b = BadgeNone
	}
	return nil
}
