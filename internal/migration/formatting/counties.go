package formatting

// UKCounties is the fallback list matched exactly when subdivision search
// finds nothing.
var UKCounties = []string{
	"Bedfordshire", "Berkshire", "Bristol", "Buckinghamshire", "Cambridgeshire",
	"Cheshire", "City of London", "Cornwall", "County Durham", "Cumbria",
	"Derbyshire", "Devon", "Dorset", "East Riding of Yorkshire", "East Sussex",
	"Essex", "Gloucestershire", "Greater London", "Greater Manchester", "Hampshire",
	"Herefordshire", "Hertfordshire", "Isle of Wight", "Kent", "Lancashire",
	"Leicestershire", "Lincolnshire", "Merseyside", "Norfolk", "North Yorkshire",
	"Northamptonshire", "Northumberland", "Nottinghamshire", "Oxfordshire", "Rutland",
	"Shropshire", "Somerset", "South Yorkshire", "Staffordshire", "Suffolk",
	"Surrey", "Tyne and Wear", "Warwickshire", "West Midlands", "West Sussex",
	"West Yorkshire", "Wiltshire", "Worcestershire",
	"Clwyd", "Dyfed", "Gwent", "Gwynedd", "Mid Glamorgan", "Powys",
	"South Glamorgan", "West Glamorgan",
	"Aberdeenshire", "Angus", "Argyll", "Ayrshire", "Banffshire", "Berwickshire",
	"Caithness", "Dumfriesshire", "Fife", "Inverness-shire", "Lanarkshire",
	"Midlothian", "Perthshire", "Renfrewshire", "Ross-shire", "Stirlingshire",
	"Sutherland", "West Lothian",
	"County Antrim", "County Armagh", "County Down", "County Fermanagh",
	"County Londonderry", "County Tyrone",
}
