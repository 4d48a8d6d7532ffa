package formatting

// subdivisions is ISO 3166-2:GB followed by a few same-named subdivisions
// elsewhere, which the GB filter in the address formatter must skip.
var subdivisions = []Subdivision{
	// Nations and province.
	{"GB-ENG", "England", "GB"},
	{"GB-NIR", "Northern Ireland", "GB"},
	{"GB-SCT", "Scotland", "GB"},
	{"GB-WLS", "Wales", "GB"},

	// England: two-tier counties.
	{"GB-CAM", "Cambridgeshire", "GB"},
	{"GB-CMA", "Cumbria", "GB"},
	{"GB-DBY", "Derbyshire", "GB"},
	{"GB-DEV", "Devon", "GB"},
	{"GB-DOR", "Dorset", "GB"},
	{"GB-ESX", "East Sussex", "GB"},
	{"GB-ESS", "Essex", "GB"},
	{"GB-GLS", "Gloucestershire", "GB"},
	{"GB-HAM", "Hampshire", "GB"},
	{"GB-HRT", "Hertfordshire", "GB"},
	{"GB-KEN", "Kent", "GB"},
	{"GB-LAN", "Lancashire", "GB"},
	{"GB-LEC", "Leicestershire", "GB"},
	{"GB-LIN", "Lincolnshire", "GB"},
	{"GB-NFK", "Norfolk", "GB"},
	{"GB-NYK", "North Yorkshire", "GB"},
	{"GB-NTH", "Northamptonshire", "GB"},
	{"GB-NTT", "Nottinghamshire", "GB"},
	{"GB-OXF", "Oxfordshire", "GB"},
	{"GB-SOM", "Somerset", "GB"},
	{"GB-STS", "Staffordshire", "GB"},
	{"GB-SFK", "Suffolk", "GB"},
	{"GB-SRY", "Surrey", "GB"},
	{"GB-WAR", "Warwickshire", "GB"},
	{"GB-WSX", "West Sussex", "GB"},
	{"GB-WOR", "Worcestershire", "GB"},

	// England: London boroughs and the City.
	{"GB-BDG", "Barking and Dagenham", "GB"},
	{"GB-BNE", "Barnet", "GB"},
	{"GB-BEX", "Bexley", "GB"},
	{"GB-BEN", "Brent", "GB"},
	{"GB-BRY", "Bromley", "GB"},
	{"GB-CMD", "Camden", "GB"},
	{"GB-CRY", "Croydon", "GB"},
	{"GB-EAL", "Ealing", "GB"},
	{"GB-ENF", "Enfield", "GB"},
	{"GB-GRE", "Greenwich", "GB"},
	{"GB-HCK", "Hackney", "GB"},
	{"GB-HMF", "Hammersmith and Fulham", "GB"},
	{"GB-HRY", "Haringey", "GB"},
	{"GB-HRW", "Harrow", "GB"},
	{"GB-HAV", "Havering", "GB"},
	{"GB-HIL", "Hillingdon", "GB"},
	{"GB-HNS", "Hounslow", "GB"},
	{"GB-ISL", "Islington", "GB"},
	{"GB-KEC", "Kensington and Chelsea", "GB"},
	{"GB-KTT", "Kingston upon Thames", "GB"},
	{"GB-LBH", "Lambeth", "GB"},
	{"GB-LEW", "Lewisham", "GB"},
	{"GB-LND", "London, City of", "GB"},
	{"GB-MRT", "Merton", "GB"},
	{"GB-NWM", "Newham", "GB"},
	{"GB-RDB", "Redbridge", "GB"},
	{"GB-RIC", "Richmond upon Thames", "GB"},
	{"GB-SWK", "Southwark", "GB"},
	{"GB-STN", "Sutton", "GB"},
	{"GB-TWH", "Tower Hamlets", "GB"},
	{"GB-WFT", "Waltham Forest", "GB"},
	{"GB-WND", "Wandsworth", "GB"},
	{"GB-WSM", "Westminster", "GB"},

	// England: metropolitan districts.
	{"GB-BNS", "Barnsley", "GB"},
	{"GB-BIR", "Birmingham", "GB"},
	{"GB-BOL", "Bolton", "GB"},
	{"GB-BRD", "Bradford", "GB"},
	{"GB-BUR", "Bury", "GB"},
	{"GB-CLD", "Calderdale", "GB"},
	{"GB-COV", "Coventry", "GB"},
	{"GB-DNC", "Doncaster", "GB"},
	{"GB-DUD", "Dudley", "GB"},
	{"GB-GAT", "Gateshead", "GB"},
	{"GB-KIR", "Kirklees", "GB"},
	{"GB-KWL", "Knowsley", "GB"},
	{"GB-LDS", "Leeds", "GB"},
	{"GB-LIV", "Liverpool", "GB"},
	{"GB-MAN", "Manchester", "GB"},
	{"GB-NET", "Newcastle upon Tyne", "GB"},
	{"GB-NTY", "North Tyneside", "GB"},
	{"GB-OLD", "Oldham", "GB"},
	{"GB-RCH", "Rochdale", "GB"},
	{"GB-ROT", "Rotherham", "GB"},
	{"GB-SLF", "Salford", "GB"},
	{"GB-SAW", "Sandwell", "GB"},
	{"GB-SFT", "Sefton", "GB"},
	{"GB-SHF", "Sheffield", "GB"},
	{"GB-SOL", "Solihull", "GB"},
	{"GB-STY", "South Tyneside", "GB"},
	{"GB-SHN", "St. Helens", "GB"},
	{"GB-SKP", "Stockport", "GB"},
	{"GB-SND", "Sunderland", "GB"},
	{"GB-TAM", "Tameside", "GB"},
	{"GB-TRF", "Trafford", "GB"},
	{"GB-WKF", "Wakefield", "GB"},
	{"GB-WLL", "Walsall", "GB"},
	{"GB-WGN", "Wigan", "GB"},
	{"GB-WRL", "Wirral", "GB"},
	{"GB-WLV", "Wolverhampton", "GB"},

	// England: unitary authorities.
	{"GB-BAS", "Bath and North East Somerset", "GB"},
	{"GB-BDF", "Bedford", "GB"},
	{"GB-BBD", "Blackburn with Darwen", "GB"},
	{"GB-BPL", "Blackpool", "GB"},
	{"GB-BCP", "Bournemouth, Christchurch and Poole", "GB"},
	{"GB-BRC", "Bracknell Forest", "GB"},
	{"GB-BNH", "Brighton and Hove", "GB"},
	{"GB-BST", "Bristol, City of", "GB"},
	{"GB-BKM", "Buckinghamshire", "GB"},
	{"GB-CBF", "Central Bedfordshire", "GB"},
	{"GB-CHE", "Cheshire East", "GB"},
	{"GB-CHW", "Cheshire West and Chester", "GB"},
	{"GB-CON", "Cornwall", "GB"},
	{"GB-DAL", "Darlington", "GB"},
	{"GB-DER", "Derby", "GB"},
	{"GB-DUR", "Durham, County", "GB"},
	{"GB-ERY", "East Riding of Yorkshire", "GB"},
	{"GB-HAL", "Halton", "GB"},
	{"GB-HPL", "Hartlepool", "GB"},
	{"GB-HEF", "Herefordshire", "GB"},
	{"GB-IOW", "Isle of Wight", "GB"},
	{"GB-IOS", "Isles of Scilly", "GB"},
	{"GB-KHL", "Kingston upon Hull", "GB"},
	{"GB-LCE", "Leicester", "GB"},
	{"GB-LUT", "Luton", "GB"},
	{"GB-MDW", "Medway", "GB"},
	{"GB-MDB", "Middlesbrough", "GB"},
	{"GB-MIK", "Milton Keynes", "GB"},
	{"GB-NEL", "North East Lincolnshire", "GB"},
	{"GB-NLN", "North Lincolnshire", "GB"},
	{"GB-NNH", "North Northamptonshire", "GB"},
	{"GB-NSM", "North Somerset", "GB"},
	{"GB-NBL", "Northumberland", "GB"},
	{"GB-NGM", "Nottingham", "GB"},
	{"GB-PTE", "Peterborough", "GB"},
	{"GB-PLY", "Plymouth", "GB"},
	{"GB-POR", "Portsmouth", "GB"},
	{"GB-RDG", "Reading", "GB"},
	{"GB-RCC", "Redcar and Cleveland", "GB"},
	{"GB-RUT", "Rutland", "GB"},
	{"GB-SHR", "Shropshire", "GB"},
	{"GB-SLG", "Slough", "GB"},
	{"GB-SGC", "South Gloucestershire", "GB"},
	{"GB-STH", "Southampton", "GB"},
	{"GB-SOS", "Southend-on-Sea", "GB"},
	{"GB-STT", "Stockton-on-Tees", "GB"},
	{"GB-STE", "Stoke-on-Trent", "GB"},
	{"GB-SWD", "Swindon", "GB"},
	{"GB-TFW", "Telford and Wrekin", "GB"},
	{"GB-THR", "Thurrock", "GB"},
	{"GB-TOB", "Torbay", "GB"},
	{"GB-WRT", "Warrington", "GB"},
	{"GB-WBK", "West Berkshire", "GB"},
	{"GB-WNH", "West Northamptonshire", "GB"},
	{"GB-WIL", "Wiltshire", "GB"},
	{"GB-WNM", "Windsor and Maidenhead", "GB"},
	{"GB-WOK", "Wokingham", "GB"},
	{"GB-YOR", "York", "GB"},

	// Northern Ireland: districts.
	{"GB-ANN", "Antrim and Newtownabbey", "GB"},
	{"GB-AND", "Ards and North Down", "GB"},
	{"GB-ABC", "Armagh City, Banbridge and Craigavon", "GB"},
	{"GB-BFS", "Belfast City", "GB"},
	{"GB-CCG", "Causeway Coast and Glens", "GB"},
	{"GB-DRS", "Derry and Strabane", "GB"},
	{"GB-FMO", "Fermanagh and Omagh", "GB"},
	{"GB-LBC", "Lisburn and Castlereagh", "GB"},
	{"GB-MEA", "Mid and East Antrim", "GB"},
	{"GB-MUL", "Mid-Ulster", "GB"},
	{"GB-NMD", "Newry, Mourne and Down", "GB"},

	// Scotland: council areas.
	{"GB-ABE", "Aberdeen City", "GB"},
	{"GB-ABD", "Aberdeenshire", "GB"},
	{"GB-ANS", "Angus", "GB"},
	{"GB-AGB", "Argyll and Bute", "GB"},
	{"GB-CLK", "Clackmannanshire", "GB"},
	{"GB-DGY", "Dumfries and Galloway", "GB"},
	{"GB-DND", "Dundee City", "GB"},
	{"GB-EAY", "East Ayrshire", "GB"},
	{"GB-EDU", "East Dunbartonshire", "GB"},
	{"GB-ELN", "East Lothian", "GB"},
	{"GB-ERW", "East Renfrewshire", "GB"},
	{"GB-EDH", "Edinburgh, City of", "GB"},
	{"GB-ELS", "Eilean Siar", "GB"},
	{"GB-FAL", "Falkirk", "GB"},
	{"GB-FIF", "Fife", "GB"},
	{"GB-GLG", "Glasgow City", "GB"},
	{"GB-HLD", "Highland", "GB"},
	{"GB-IVC", "Inverclyde", "GB"},
	{"GB-MLN", "Midlothian", "GB"},
	{"GB-MRY", "Moray", "GB"},
	{"GB-NAY", "North Ayrshire", "GB"},
	{"GB-NLK", "North Lanarkshire", "GB"},
	{"GB-ORK", "Orkney Islands", "GB"},
	{"GB-PKN", "Perth and Kinross", "GB"},
	{"GB-RFW", "Renfrewshire", "GB"},
	{"GB-SCB", "Scottish Borders", "GB"},
	{"GB-ZET", "Shetland Islands", "GB"},
	{"GB-SAY", "South Ayrshire", "GB"},
	{"GB-SLK", "South Lanarkshire", "GB"},
	{"GB-STG", "Stirling", "GB"},
	{"GB-WDU", "West Dunbartonshire", "GB"},
	{"GB-WLN", "West Lothian", "GB"},

	// Wales: unitary authorities.
	{"GB-BGW", "Blaenau Gwent", "GB"},
	{"GB-BGE", "Bridgend", "GB"},
	{"GB-CAY", "Caerphilly", "GB"},
	{"GB-CRF", "Cardiff", "GB"},
	{"GB-CMN", "Carmarthenshire", "GB"},
	{"GB-CGN", "Ceredigion", "GB"},
	{"GB-CWY", "Conwy", "GB"},
	{"GB-DEN", "Denbighshire", "GB"},
	{"GB-FLN", "Flintshire", "GB"},
	{"GB-GWN", "Gwynedd", "GB"},
	{"GB-AGY", "Isle of Anglesey", "GB"},
	{"GB-MTY", "Merthyr Tydfil", "GB"},
	{"GB-MON", "Monmouthshire", "GB"},
	{"GB-NTL", "Neath Port Talbot", "GB"},
	{"GB-NWP", "Newport", "GB"},
	{"GB-PEM", "Pembrokeshire", "GB"},
	{"GB-POW", "Powys", "GB"},
	{"GB-RCT", "Rhondda Cynon Taff", "GB"},
	{"GB-SWA", "Swansea", "GB"},
	{"GB-TOF", "Torfaen", "GB"},
	{"GB-VGL", "Vale of Glamorgan, The", "GB"},
	{"GB-WRX", "Wrexham", "GB"},

	{"US-NH", "New Hampshire", "US"},
	{"US-NY", "New York", "US"},
	{"US-NJ", "New Jersey", "US"},
	{"AU-NSW", "New South Wales", "AU"},
	{"IE-CO", "Cork", "IE"},
	{"IE-KY", "Kerry", "IE"},
	{"CA-NS", "Nova Scotia", "CA"},
}
